package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/lakeridgehq/sessiond/internal/auth/http"
	"github.com/lakeridgehq/sessiond/internal/auth/service"
	"github.com/lakeridgehq/sessiond/internal/auth/store"
	"github.com/lakeridgehq/sessiond/internal/auth/store/drivers/postgres"
	"github.com/lakeridgehq/sessiond/internal/auth/store/drivers/sqlite"
	"github.com/lakeridgehq/sessiond/pkg/cryptox"
	"github.com/lakeridgehq/sessiond/pkg/jwtx"
	"github.com/lakeridgehq/sessiond/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the session service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService         *service.AuthService
	registrationService *service.RegistrationService
	sessionStore        *service.SessionStore
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "sessiond",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("session service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down session service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("session service stopped")
	return nil
}

// initDatabase opens the configured store backend and applies migrations.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(app.cfg.DatabaseDSN)
	default:
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseDSN)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initServices builds the business logic services.
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadPepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	accessCodec, err := jwtx.NewCodec(app.cfg.AccessSecret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to build access token codec: %w", err)
	}
	emailCodec, err := jwtx.NewCodec(app.cfg.EmailSecret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to build email token codec: %w", err)
	}

	app.sessionStore = &service.SessionStore{
		Store:      app.db,
		Pepper:     pepper,
		RefreshTTL: app.cfg.RefreshTokenTTL(),
	}

	app.authService = &service.AuthService{
		Store:       app.db,
		Sessions:    app.sessionStore,
		AccessCodec: accessCodec,
		Issuer:      app.cfg.Issuer,
		AccessTTL:   app.cfg.AccessTokenTTL(),
	}

	app.registrationService = &service.RegistrationService{
		Store:      app.db,
		EmailCodec: emailCodec,
		Issuer:     app.cfg.Issuer,
		EmailTTL:   app.cfg.EmailTokenTTL(),
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.sessionStore,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.HousekeepingRetention,
	)

	return nil
}

// initHTTP builds the router and HTTP server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.RegistrationService = app.registrationService
	router.SessionStore = app.sessionStore
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
