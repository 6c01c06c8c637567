// Package models defines server-side data models persisted in the credential store.
package models

import "time"

// User is a registered identity. RefreshToken is nil while the user has no
// active session; otherwise it holds the one refresh token that may still be
// exchanged. No history of earlier tokens is kept.
type User struct {
	ID           string
	UserName     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash []byte
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRefreshToken reports whether token is the user's current refresh token.
// An empty token never matches, even against a stored empty value.
func (u *User) HasRefreshToken(token string) bool {
	return token != "" && u.RefreshToken != nil && *u.RefreshToken == token
}

// PublicUser is the client-facing view of a User: no password hash and no
// refresh token.
type PublicUser struct {
	ID         string    `json:"_id"`
	UserName   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		UserName:   u.UserName,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
