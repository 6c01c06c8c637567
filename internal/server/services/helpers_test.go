package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/media"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret"
	testRefreshSecret = "refresh-secret"
)

func newTestCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec(auth.CodecConfig{
		AccessSecret:  []byte(testAccessSecret),
		AccessTTL:     15 * time.Minute,
		RefreshSecret: []byte(testRefreshSecret),
		RefreshTTL:    240 * time.Hour,
	})
	require.NoError(t, err)
	return c
}

// fakeUploader records uploads and returns deterministic URLs.
type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	failFor  string
}

func (f *fakeUploader) Upload(_ context.Context, file *media.File) (string, error) {
	if file == nil {
		return "", nil
	}
	if f.failFor != "" && file.Name == f.failFor {
		return "", errors.New("storage unavailable")
	}
	_, _ = io.Copy(io.Discard, file.Body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, file.Name)
	return "http://cdn.local/media/" + file.Name, nil
}

func image(name string) *media.File {
	return &media.File{Name: name, ContentType: "image/png", Body: strings.NewReader("png")}
}

// faultyRepo wraps a working repository and fails selected operations.
type faultyRepo struct {
	users.Repository
	findErr   error
	setErr    error
	rotateErr error
	clearErr  error
}

func (f *faultyRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Repository.FindByID(ctx, id)
}

func (f *faultyRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Repository.SetRefreshToken(ctx, id, token)
}

func (f *faultyRepo) RotateRefreshToken(ctx context.Context, id, expected, next string) error {
	if f.rotateErr != nil {
		return f.rotateErr
	}
	return f.Repository.RotateRefreshToken(ctx, id, expected, next)
}

func (f *faultyRepo) ClearRefreshToken(ctx context.Context, id string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.Repository.ClearRefreshToken(ctx, id)
}

type faultyManager struct {
	*repomanager.MemoryRepositoryManager
	repo *faultyRepo
}

func newFaultyManager() *faultyManager {
	m := repomanager.NewMemoryRepositoryManager()
	return &faultyManager{MemoryRepositoryManager: m, repo: &faultyRepo{Repository: m.Users()}}
}

func (m *faultyManager) Users() users.Repository { return m.repo }

func (m *faultyManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return fn(ctx, m.repo)
}

type testEnv struct {
	manager  repomanager.RepositoryManager
	codec    *auth.Codec
	sessions *SessionService
	users    *UserService
	uploader *fakeUploader
}

func newTestEnv(t *testing.T, m repomanager.RepositoryManager, limiter LoginLimiter) *testEnv {
	t.Helper()
	codec := newTestCodec(t)
	up := &fakeUploader{}
	sessions := NewSessionService(m, codec, logging.Nop{})
	return &testEnv{
		manager:  m,
		codec:    codec,
		sessions: sessions,
		users:    NewUserService(m, sessions, up, limiter, logging.Nop{}),
		uploader: up,
	}
}

// registerAlice creates alice/s3cret and returns her id.
func (e *testEnv) registerAlice(t *testing.T) string {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		FullName: "Alice A",
		Email:    "Alice@Example.com",
		UserName: " Alice ",
		Password: "s3cret",
		Avatar:   image("alice.png"),
	})
	require.NoError(t, err)
	return u.ID
}
