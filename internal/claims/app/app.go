package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/docqa/internal/claims/http"
	"github.com/aussiebroadwan/docqa/internal/claims/metrics"
	"github.com/aussiebroadwan/docqa/internal/claims/service"
	"github.com/aussiebroadwan/docqa/internal/claims/store"
	"github.com/aussiebroadwan/docqa/internal/claims/store/cache"
	"github.com/aussiebroadwan/docqa/internal/claims/store/drivers/postgres"
	"github.com/aussiebroadwan/docqa/internal/claims/store/drivers/sqlite"
	"github.com/aussiebroadwan/docqa/pkg/jwtx"
	"github.com/aussiebroadwan/docqa/pkg/slogx"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the claims service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	usernames cache.Usernames
	registry  *prometheus.Registry
	metrics   *metrics.Metrics

	tracerProvider *sdktrace.TracerProvider

	// Services
	claimsService    *service.ClaimsService
	provisionService *service.ProvisionService
	backfillService  *service.BackfillService // nil when BACKFILL_INTERVAL is 0

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "claims-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initTracing(ctx); err != nil {
		return nil, err
	}

	if err := app.initDatabase(ctx); err != nil {
		app.shutdownTracing(ctx)
		return nil, err
	}

	if err := app.initCache(ctx); err != nil {
		_ = app.db.Close()
		app.shutdownTracing(ctx)
		return nil, err
	}

	app.initMetrics()
	app.initServices()

	if err := app.initHTTP(); err != nil {
		_ = app.usernames.Close()
		_ = app.db.Close()
		app.shutdownTracing(ctx)
		return nil, err
	}

	return app, nil
}

// Handler exposes the fully wired router, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.backfillService != nil {
		app.backfillService.Start()
	}

	app.logger.Info("claims service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("server failed", "error", err)
			ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
			defer cancel()
			_ = app.release(ctx)
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down claims service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.release(ctx); err != nil {
		return err
	}

	app.logger.Info("claims service stopped")
	return nil
}

// release stops background work and closes everything New opened.
func (app *Application) release(ctx context.Context) error {
	if app.backfillService != nil {
		app.backfillService.Stop()
	}

	if err := app.usernames.Close(); err != nil {
		app.logger.Error("error closing username cache", "error", err)
	}

	app.shutdownTracing(ctx)

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseURL, postgres.PoolConfig{
			MaxOpenConns:    app.cfg.DBMaxOpenConns,
			MaxIdleConns:    app.cfg.DBMaxIdleConns,
			ConnMaxLifetime: app.cfg.DBConnLifetime,
		})
	default:
		db, err = sqlite.NewStore("file:" + app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initCache(ctx context.Context) error {
	switch app.cfg.CacheBackend {
	case CacheRedis:
		r, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
			Prefix:   app.cfg.RedisPrefix,
			TTL:      app.cfg.CacheTTL,
		})
		if err != nil {
			return fmt.Errorf("failed to connect username cache: %w", err)
		}
		app.usernames = r
	case CacheNone:
		app.usernames = cache.Noop{}
	default:
		app.usernames = cache.NewMemory(app.cfg.CacheTTL, app.cfg.CacheCapacity)
	}

	app.logger.Info("username cache ready", "backend", app.cfg.CacheBackend, "ttl", app.cfg.CacheTTL)
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	profiles := app.db.Profiles()

	app.claimsService = service.NewClaimsService(profiles, app.usernames, app.metrics)
	app.provisionService = service.NewProvisionService(app.db, app.usernames, app.metrics, app.logger)

	if app.cfg.BackfillInterval > 0 {
		app.backfillService = service.NewBackfillService(
			profiles,
			app.usernames,
			app.metrics,
			app.logger,
			app.cfg.BackfillInterval,
			app.cfg.BackfillBatchSize,
		)
	} else {
		app.logger.Info("username backfill disabled")
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	hooks, err := webhookx.NewVerifier(app.cfg.HookSecret)
	if err != nil {
		return fmt.Errorf("invalid HOOK_SECRET: %w", err)
	}

	// Left nil without a JWT secret so /v1/me is not served.
	var verifier jwtx.Verifier
	if app.cfg.JWTSecret != "" {
		v, err := jwtx.NewVerifierHS256([]byte(app.cfg.JWTSecret), jwtx.VerifyOptions{
			Issuer:   app.cfg.JWTIssuer,
			Audience: app.cfg.Audiences(),
			Leeway:   app.cfg.JWTLeeway,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize JWT verifier: %w", err)
		}
		verifier = v
	}

	router := httpapi.NewRouter(
		hooks,
		verifier,
		BuildVersion,
		app.db,
		app.usernames,
		app.registry,
		app.logger,
	)

	// Wire services to router
	router.ClaimsService = app.claimsService
	router.ProvisionService = app.provisionService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
