// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/rehearsal/internal/logging"
	"github.com/dmitrijs2005/rehearsal/internal/server/auth"
	"github.com/dmitrijs2005/rehearsal/internal/server/config"
	"github.com/dmitrijs2005/rehearsal/internal/server/httpapi"
	"github.com/dmitrijs2005/rehearsal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/rehearsal/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	limiter httpapi.Limiter
	handler http.Handler
	server  *httpapi.Server
}

// NewApp connects to PostgreSQL, applies migrations and assembles the API.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	app := &App{config: c, logger: logger, db: db}

	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.TokenValidityDuration)
	api := httpapi.NewAPI(
		services.NewUserService(db, rm, tokens),
		services.NewBandService(db, rm),
		services.NewImageService(c),
		tokens,
		logger.With("module", "http_api"),
	)

	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		app.limiter = httpapi.NewRedisLimiter(app.redis, c.RateLimitRequests, c.RateLimitWindow)
	} else {
		app.limiter = httpapi.NewMemoryLimiter(c.RateLimitRequests, c.RateLimitWindow)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "rehearsal"),
	)

	app.handler = api.Routes(httpapi.RouterOptions{
		Limiter:    app.limiter,
		Metrics:    httpapi.NewMetrics(registry),
		CORSOrigin: c.CORSOrigin,
		TrustProxy: c.TrustProxy,
	})
	app.server = httpapi.NewServer(c.EndpointAddrHTTP, app.handler, c.ShutdownTimeout, logger)

	return app
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then releases the database and Redis connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	if ml, ok := app.limiter.(*httpapi.MemoryLimiter); ok {
		ml.StartCleanup(ctx)
	}

	err := app.server.Run(ctx)

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close error", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "db close error", "error", err)
		}
	}
}
