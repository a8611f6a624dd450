package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/auth"
	httpapi "github.com/aussiebroadwan/registry/internal/registry/http"
	"github.com/aussiebroadwan/registry/internal/registry/metrics"
	"github.com/aussiebroadwan/registry/internal/registry/service"
	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/aussiebroadwan/registry/internal/registry/store/drivers/memory"
	"github.com/aussiebroadwan/registry/internal/registry/store/drivers/sqlite"
	"github.com/aussiebroadwan/registry/pkg/cryptox"
	"github.com/aussiebroadwan/registry/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the registry service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	nonces  *auth.NonceCache
	metrics *metrics.Metrics

	// Services
	adminService  *service.AdminService
	clientService *service.ClientService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service:  "registry",
			Version:  BuildVersion,
			Instance: cfg.Instance,
			Env:      cfg.Env,
			Level:    cfg.LogLevel,
			Format:   cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves on the configured port until ctx is cancelled, a shutdown
// signal arrives or the server fails.
func (app *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return app.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (app *Application) Serve(ctx context.Context, ln net.Listener) error {
	app.logger.Info("registry starting",
		"addr", ln.Addr().String(),
		"store", app.cfg.StoreDriver,
		"version", BuildVersion,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.Serve(ln)
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.closeResources()
			return fmt.Errorf("server failed: %w", err)
		}
		return app.closeResources()
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
	case <-ctx.Done():
		app.logger.Info("context cancelled")
	}

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down registry...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("registry stopped")
	return nil
}

func (app *Application) closeResources() error {
	app.nonces.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing store", "error", err)
		return err
	}
	return nil
}

// SQLiteDSN builds the connection string for the database file.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", path)
}

// initStore opens the configured store and applies migrations
func (app *Application) initStore() error {
	switch app.cfg.StoreDriver {
	case DriverMemory:
		app.db = memory.New()
		app.logger.Warn("using in-memory store, records are lost on restart")
		return nil
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}

	db, err := sqlite.NewStore(SQLiteDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	if app.cfg.Metrics {
		app.metrics = metrics.New()
	}
	app.nonces = auth.NewNonceCache(app.cfg.NonceCapacity)

	app.adminService = &service.AdminService{
		Store: app.db,
		Authorizer: &auth.ProofAuthorizer{
			Audience: app.cfg.Instance,
			MaxAge:   app.cfg.ProofMaxAge,
			Leeway:   app.cfg.ProofLeeway,
			Nonces:   app.nonces,
		},
		Metrics: app.metrics,
	}
	app.clientService = &service.ClientService{
		Store:   app.db,
		Admin:   app.adminService,
		Metrics: app.metrics,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.Instance,
		BuildVersion,
		app.db,
		app.cfg.RateLimit,
		app.logger,
	)

	// Wire services to router
	router.Metrics = app.metrics // nil disables /metrics
	router.AdminService = app.adminService
	router.ClientService = app.clientService
	router.BootstrapToken = app.cfg.BootstrapToken
	if app.cfg.BootstrapToken != "" {
		app.logger.Info("bootstrap token required",
			"fingerprint", cryptox.FingerprintToken(app.cfg.BootstrapToken)[:8],
		)
	}
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
