// Package common defines shared constants and sentinel errors used across
// sessionkeeper layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrStaleToken      = errors.New("refresh token is expired or used")

	// Service-level errors.
	ErrorInternal            = errors.New("internal error")
	ErrorUnauthorized        = errors.New("unauthorized")
	ErrorValidation          = errors.New("validation error")
	ErrUserNotFound          = errors.New("user does not exist")
	ErrInvalidCredentials    = errors.New("invalid user credentials")
	ErrSessionIssuanceFailed = errors.New("something went wrong while generating refresh and access token")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrMissingToken = errors.New("missing token")
)
