package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestIsMongoDSN(t *testing.T) {
	cases := map[string]bool{
		"mongodb://localhost:27017":             true,
		"mongodb+srv://cluster.example.net/app": true,
		"postgres://u:p@localhost:5432/db":      false,
		"host=localhost user=u dbname=db":       false,
		MemoryDSN:                               false,
	}
	for dsn, want := range cases {
		assert.Equal(t, want, IsMongoDSN(dsn), dsn)
	}
}

func TestOpen_Memory(t *testing.T) {
	m, err := Open(context.Background(), MemoryDSN, "")
	require.NoError(t, err)

	_, ok := m.(*MemoryRepositoryManager)
	assert.True(t, ok)
	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.NoError(t, m.Close(context.Background()))
}

func TestOpen_PostgresUsesPgxDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := sqlOpen
	var gotDriver, gotDSN string
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return db, nil
	}
	defer func() { sqlOpen = orig }()

	m, err := Open(context.Background(), "postgres://u:p@localhost/db", "")
	require.NoError(t, err)

	_, ok := m.(*PostgresRepositoryManager)
	assert.True(t, ok)
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, "postgres://u:p@localhost/db", gotDSN)
}

func TestOpen_Errors(t *testing.T) {
	origSQL, origMongo := sqlOpen, mongoConnect
	defer func() { sqlOpen, mongoConnect = origSQL, origMongo }()

	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }
	mongoConnect = func(context.Context, string) (*mongo.Client, error) { return nil, errors.New("bad uri") }

	_, err := Open(context.Background(), "postgres://x", "")
	assert.ErrorContains(t, err, "bad dsn")

	_, err = Open(context.Background(), "mongodb://x", "app")
	assert.ErrorContains(t, err, "bad uri")
}

func TestMongoRepositoryManager(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("users and migrations", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, "sessionkeeper")

		_, ok := m.Users().(*users.MongoRepository)
		assert.True(mt, ok)

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, m.RunMigrations(context.Background()))
	})

	mt.Run("within tx runs fn", func(mt *mtest.T) {
		m := NewMongoRepositoryManager(mt.Client, "sessionkeeper")

		called := false
		err := m.WithinTx(context.Background(), func(ctx context.Context, repo users.Repository) error {
			called = true
			return nil
		})
		assert.NoError(mt, err)
		assert.True(mt, called)
	})
}
