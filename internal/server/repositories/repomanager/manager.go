package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
)

// RepositoryManager owns the store connection and vends repositories bound
// to it.
type RepositoryManager interface {
	Users() users.Repository
	// WithinTx runs fn against a repository whose writes commit together.
	// Backends without multi-statement transactions run fn directly and rely
	// on their unique indexes instead.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
	RunMigrations(ctx context.Context) error
	Close(ctx context.Context) error
}
