// Package services contains server-side business logic: the session
// lifecycle (issue, refresh, terminate) and user registration and login.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
)

// SessionService owns the access/refresh token lifecycle. A user holds at
// most one live refresh token; issuing overwrites it, refreshing swaps it
// atomically and terminating removes it.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	logger      logging.Logger
}

func NewSessionService(m repomanager.RepositoryManager, codec *auth.Codec, logger logging.Logger) *SessionService {
	return &SessionService{
		repomanager: m,
		codec:       codec,
		logger:      logger.With("module", "sessions"),
	}
}

// Issue mints a fresh token pair for userID and makes its refresh token the
// only one the user holds. Callers must have authenticated the user.
func (s *SessionService) Issue(ctx context.Context, userID string) (*models.TokenPair, error) {
	repo := s.repomanager.Users()

	if _, err := repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrSessionIssuanceFailed, err)
	}

	pair, err := s.mint(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSessionIssuanceFailed, err)
	}

	if err := repo.SetRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrSessionIssuanceFailed, err)
	}

	return pair, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// stops working whether or not the exchange succeeds for this caller: when
// two callers race with the same token exactly one of them wins.
//
// Every failure is reported as common.ErrorUnauthorized; common.CauseOf
// recovers the reason for logs.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	pair, err := s.refresh(ctx, refreshToken)
	if err != nil {
		if expectedRefreshFailure(err) {
			s.logger.Warn(ctx, "refresh rejected", "reason", err.Error())
		} else {
			s.logger.Error(ctx, "refresh failed", "error", err.Error())
		}
		return nil, common.Collapse(common.ErrorUnauthorized, err)
	}
	return pair, nil
}

func (s *SessionService) refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrMissingToken
	}

	userID, err := s.codec.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users()

	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	if !user.HasRefreshToken(refreshToken) {
		return nil, common.ErrStaleToken
	}

	pair, err := s.mint(user.ID)
	if err != nil {
		return nil, err
	}

	// The liveness check above is advisory; this conditional write decides.
	if err := repo.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		return nil, err
	}

	return pair, nil
}

// Terminate ends the user's session by removing the stored refresh token.
// Access tokens already handed out stay valid until they expire.
func (s *SessionService) Terminate(ctx context.Context, userID string) error {
	if err := s.repomanager.Users().ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("error clearing refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves an access token to its user ID.
func (s *SessionService) Authenticate(accessToken string) (string, error) {
	if accessToken == "" {
		return "", common.ErrMissingToken
	}
	return s.codec.Verify(accessToken, auth.KindAccess)
}

func (s *SessionService) mint(userID string) (*models.TokenPair, error) {
	access, err := s.codec.Issue(userID, auth.KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(userID, auth.KindRefresh)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func expectedRefreshFailure(err error) bool {
	for _, e := range []error{
		common.ErrMissingToken,
		common.ErrInvalidToken,
		common.ErrTokenExpired,
		common.ErrUserNotFound,
		common.ErrStaleToken,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
