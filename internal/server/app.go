// Package server wires the credential store, token codec, services and
// transports together and runs the HTTP and gRPC servers until a shutdown
// signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/media"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/ratelimit"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/sessionkeeper/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	redis    *redis.Client
	users    *services.UserService
	sessions *services.SessionService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	repos, err := repomanager.Open(ctx, c.DatabaseDSN, c.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	codec, err := auth.NewCodec(auth.CodecConfig{
		AccessSecret:  []byte(c.AccessTokenSecret),
		AccessTTL:     c.AccessTokenTTL,
		RefreshSecret: []byte(c.RefreshTokenSecret),
		RefreshTTL:    c.RefreshTokenTTL,
	})
	if err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("token codec error: %w", err)
	}

	uploader, err := media.NewS3Uploader(ctx, media.S3Config{
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		BaseEndpoint:  c.S3BaseEndpoint,
		Bucket:        c.S3Bucket,
		PublicBaseURL: c.S3PublicBaseURL,
	})
	if err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("media storage error: %w", err)
	}

	// A nil interface, not a typed nil, disables throttling.
	var limiter services.LoginLimiter
	var rdb *redis.Client
	if c.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		limiter = ratelimit.New(rdb, ratelimit.Config{MaxAttempts: c.MaxLoginAttempts, Window: c.LoginWindow})
	}

	sessions := services.NewSessionService(repos, codec, logger)
	users := services.NewUserService(repos, sessions, uploader, limiter, logger)

	return &App{
		config:   c,
		logger:   logger,
		repos:    repos,
		redis:    rdb,
		users:    users,
		sessions: sessions,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(gin.ReleaseMode)

	h := httpapi.NewHandler(app.users, app.sessions, app.repos.Users(),
		httpapi.CookieConfig{Secure: app.config.CookieSecure}, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(h, app.config.CORSOrigin), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.repos.Users(), app.config.HealthCheckInterval, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a shutdown signal arrives or one of the
// servers fails, then releases the store and Redis connections.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	ctx := context.Background()
	if err := app.repos.Close(ctx); err != nil {
		app.logger.Error(ctx, "store close error", "error", err.Error())
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err.Error())
		}
	}
}
