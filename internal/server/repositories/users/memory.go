package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process. It backs local development and
// tests; every method holds one mutex, which makes RotateRefreshToken a
// true compare-and-swap.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.UserName == user.UserName || u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}

	now := time.Now().UTC()
	stored := clone(user)
	stored.ID = uuid.NewString()
	stored.RefreshToken = nil
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.users[stored.ID] = stored

	return clone(stored), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) FindByUsernameOrEmail(_ context.Context, userName, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if (userName != "" && u.UserName == userName) || (email != "" && u.Email == email) {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) SetRefreshToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = &token
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) RotateRefreshToken(_ context.Context, id, expected, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || !u.HasRefreshToken(expected) {
		return common.ErrStaleToken
	}
	u.RefreshToken = &next
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryRepository) ClearRefreshToken(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.RefreshToken = nil
		u.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *MemoryRepository) Ping(context.Context) error { return nil }

func clone(u *models.User) *models.User {
	c := *u
	if u.PasswordHash != nil {
		c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	}
	if u.RefreshToken != nil {
		t := *u.RefreshToken
		c.RefreshToken = &t
	}
	return &c
}
