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

	"github.com/aussiebroadwan/users/internal/users/credential"
	httpapi "github.com/aussiebroadwan/users/internal/users/http"
	"github.com/aussiebroadwan/users/internal/users/metrics"
	"github.com/aussiebroadwan/users/internal/users/service"
	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/aussiebroadwan/users/internal/users/store/drivers"
	"github.com/aussiebroadwan/users/pkg/cryptox"
	"github.com/aussiebroadwan/users/pkg/jwtx"
	"github.com/aussiebroadwan/users/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the users service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.HS256
	registry *prometheus.Registry
	metrics  *metrics.Collector

	userService  *service.UserService
	authService  *service.AuthService
	housekeeping *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New connects the store, applies migrations and wires the HTTP server.
func New(cfg Config) (*Application, error) {
	return NewWithLogger(cfg, slogx.New(slogx.Config{
		Service: "users-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}))
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	signer, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMetrics()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("users service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down users service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("users service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := drivers.Open(ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", drivers.Kind(app.cfg.DatabaseURL))
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.NewCollector(app.registry)
}

func (app *Application) initServices() {
	policy := &credential.Policy{
		Hasher:         cryptox.NewPasswordHasher(app.cfg.BcryptCost),
		Signer:         app.signer,
		Issuer:         app.cfg.Issuer,
		TokenTTL:       app.cfg.JWTLifetime,
		MinEntropyBits: app.cfg.MinEntropyBits,
	}

	app.userService = &service.UserService{Store: app.db, Policy: policy, Metrics: app.metrics}
	app.authService = &service.AuthService{Store: app.db, Policy: policy, Metrics: app.metrics}
	app.housekeeping = service.NewHousekeepingService(app.db, policy, app.logger, app.cfg.HousekeepingInterval)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.cfg.CORSAllowedOrigin,
		app.db,
		app.logger,
	)

	router.UserService = app.userService
	router.AuthService = app.authService
	router.Metrics = app.metrics
	router.Gatherer = app.registry
	if app.cfg.LoginLimit.RequestsPerWindow > 0 {
		router.LoginLimit = app.cfg.LoginLimit
	}
	if app.cfg.APILimit.RequestsPerWindow > 0 {
		router.APILimit = app.cfg.APILimit
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
