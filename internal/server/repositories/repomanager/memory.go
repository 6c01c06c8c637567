package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process; selected with the
// "memory" DSN.
type MemoryRepositoryManager struct {
	repo *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{repo: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.repo }

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return fn(ctx, m.repo)
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }
