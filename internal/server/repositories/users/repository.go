// Package users is the credential store: user records plus the single
// refresh token each record may hold.
package users

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// Repository persists users. Implementations return common.ErrorNotFound
// for absent records and common.ErrorAlreadyExists on username/email clashes.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByUsernameOrEmail matches either field; an empty argument matches nothing.
	FindByUsernameOrEmail(ctx context.Context, userName, email string) (*models.User, error)

	// SetRefreshToken overwrites the refresh token field and nothing else.
	SetRefreshToken(ctx context.Context, id, token string) error
	// RotateRefreshToken replaces expected with next in a single conditional
	// write. If the stored token is no longer expected it returns
	// common.ErrStaleToken and stores nothing.
	RotateRefreshToken(ctx context.Context, id, expected, next string) error
	// ClearRefreshToken removes the field. Clearing an absent token or an
	// unknown user is not an error.
	ClearRefreshToken(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}
