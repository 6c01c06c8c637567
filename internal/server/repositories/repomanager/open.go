package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MemoryDSN selects the in-process store.
const MemoryDSN = "memory"

var (
	sqlOpen      = sql.Open
	mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
		return mongo.Connect(ctx, options.Client().ApplyURI(uri))
	}
)

// IsMongoDSN reports whether dsn addresses a MongoDB deployment.
func IsMongoDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}

// Open picks the backend from the DSN: MemoryDSN, a mongodb:// or
// mongodb+srv:// URI, or anything pgx accepts.
func Open(ctx context.Context, dsn, mongoDatabase string) (RepositoryManager, error) {
	switch {
	case dsn == MemoryDSN:
		return NewMemoryRepositoryManager(), nil

	case IsMongoDSN(dsn):
		client, err := mongoConnect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		return NewMongoRepositoryManager(client, mongoDatabase), nil

	default:
		db, err := sqlOpen("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}
		return NewPostgresRepositoryManager(db)
	}
}
