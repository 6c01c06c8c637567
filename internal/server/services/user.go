package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/media"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/ratelimit"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
)

// LoginLimiter throttles failed logins; ratelimit.Limiter implements it.
type LoginLimiter interface {
	Check(ctx context.Context, identifier string) error
	Fail(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

type RegisterInput struct {
	FullName   string
	Email      string
	UserName   string
	Password   string
	Avatar     *media.File
	CoverImage *media.File
}

// LoginInput identifies the user by username or email; when both are set
// either may match.
type LoginInput struct {
	UserName string
	Email    string
	Password string
}

type LoginResult struct {
	User   *models.PublicUser
	Tokens *models.TokenPair
}

// UserService handles registration, primary authentication and profile
// lookups. Token handling is delegated to SessionService.
type UserService struct {
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	uploader    media.Uploader
	limiter     LoginLimiter
	logger      logging.Logger
}

// NewUserService wires the service. limiter may be nil to disable throttling.
func NewUserService(m repomanager.RepositoryManager, sessions *SessionService, uploader media.Uploader,
	limiter LoginLimiter, logger logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		sessions:    sessions,
		uploader:    uploader,
		limiter:     limiter,
		logger:      logger.With("module", "users"),
	}
}

// Register creates a user with an uploaded avatar and optional cover image.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	userName := strings.ToLower(strings.TrimSpace(in.UserName))

	if fullName == "" || email == "" || userName == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users()
	if _, err := repo.FindByUsernameOrEmail(ctx, userName, email); err == nil {
		return nil, fmt.Errorf("%w: user with email or username already exists", common.ErrorAlreadyExists)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if in.Avatar == nil {
		return nil, fmt.Errorf("%w: avatar file is required", common.ErrorValidation)
	}
	avatarURL, err := s.uploader.Upload(ctx, in.Avatar)
	if err != nil || avatarURL == "" {
		s.logger.Error(ctx, "avatar upload failed", "error", err)
		return nil, fmt.Errorf("%w: avatar file is required", common.ErrorValidation)
	}

	coverURL, err := s.uploader.Upload(ctx, in.CoverImage)
	if err != nil {
		s.logger.Warn(ctx, "cover image upload failed", "error", err.Error())
		coverURL = ""
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	var created *models.User
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo users.Repository) error {
		u, err := repo.Create(ctx, &models.User{
			UserName:     userName,
			Email:        email,
			FullName:     fullName,
			Avatar:       avatarURL,
			CoverImage:   coverURL,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		created, err = repo.FindByID(ctx, u.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: user with email or username already exists", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("%w: error creating user: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created.Public(), nil
}

// Login verifies the password and issues a session.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	userName := strings.ToLower(strings.TrimSpace(in.UserName))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if userName == "" && email == "" {
		return nil, fmt.Errorf("%w: username or email is required", common.ErrorValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	identifier := userName
	if identifier == "" {
		identifier = email
	}

	if err := s.checkThrottle(ctx, identifier); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().FindByUsernameOrEmail(ctx, userName, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.recordFailure(ctx, identifier)
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		s.recordFailure(ctx, identifier)
		return nil, common.ErrInvalidCredentials
	}
	s.resetThrottle(ctx, identifier)

	pair, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{User: user.Public(), Tokens: pair}, nil
}

// Current returns the public profile of userID.
func (s *UserService) Current(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return user.Public(), nil
}

// The throttle fails open: a Redis outage must not lock everybody out.
func (s *UserService) checkThrottle(ctx context.Context, identifier string) error {
	if s.limiter == nil {
		return nil
	}
	err := s.limiter.Check(ctx, identifier)
	if errors.Is(err, ratelimit.ErrRateLimited) {
		return err
	}
	if err != nil {
		s.logger.Error(ctx, "login throttle unavailable", "error", err.Error())
	}
	return nil
}

func (s *UserService) recordFailure(ctx context.Context, identifier string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Fail(ctx, identifier); err != nil {
		s.logger.Error(ctx, "login throttle unavailable", "error", err.Error())
	}
}

func (s *UserService) resetThrottle(ctx context.Context, identifier string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, identifier); err != nil {
		s.logger.Error(ctx, "login throttle unavailable", "error", err.Error())
	}
}
