package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepositoryManager vends MongoDB-backed repositories over one client.
type MongoRepositoryManager struct {
	client *mongo.Client
	repo   *users.MongoRepository
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client: client,
		repo:   users.NewMongoRepository(client.Database(database).Collection(users.CollectionName)),
	}
}

func (m *MongoRepositoryManager) Users() users.Repository { return m.repo }

func (m *MongoRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return fn(ctx, m.repo)
}

// RunMigrations creates the unique indexes the duplicate checks rely on.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	return m.repo.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
