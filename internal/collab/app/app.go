package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/blob/bolt"
	httpapi "github.com/aussiebroadwan/collab/internal/collab/http"
	"github.com/aussiebroadwan/collab/internal/collab/notify"
	"github.com/aussiebroadwan/collab/internal/collab/service"
	"github.com/aussiebroadwan/collab/internal/collab/store/drivers/sqlite"
	"github.com/aussiebroadwan/collab/pkg/cryptox"
	"github.com/aussiebroadwan/collab/pkg/jwtx"
	"github.com/aussiebroadwan/collab/pkg/slogx"
	"github.com/aussiebroadwan/collab/pkg/tracex"
)

const (
	ServiceName = "collab"

	// BuildVersion is overridden at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application owns every long-lived dependency of the collab server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         *sqlite.Store
	blobs      *bolt.Store
	keyManager *jwtx.KeyManager
	dispatcher *notify.Dispatcher

	shutdownTracing func(context.Context) error

	userService         *service.UserService
	tokenService        *service.TokenService
	projectService      *service.ProjectService
	inviteService       *service.InviteService
	documentService     *service.DocumentService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds the application. Nothing is served until Run.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: ServiceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	shutdown, err := tracex.Setup(context.Background(), ServiceName, BuildVersion, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	app.shutdownTracing = shutdown

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, err
	}

	keyManager, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		KeyPath:  cfg.KeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = keyManager
	if cfg.KeyFile == "" {
		app.logger.Warn("using an ephemeral signing key, tokens will not survive a restart")
	}

	if err := app.initStorage(); err != nil {
		return nil, err
	}
	if err := app.initNotify(); err != nil {
		app.closeStorage()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run serves until SIGINT/SIGTERM or a server failure.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("collab service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		app.closeStorage()
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

// Shutdown drains requests, background work and pending notifications, then
// closes the stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down collab service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.dispatcher.Wait(ctx); err != nil {
		app.logger.Warn("pending invite notifications dropped", "error", err)
	}

	if err := app.shutdownTracing(ctx); err != nil {
		app.logger.Warn("tracer shutdown failed", "error", err)
	}

	if err := app.closeStorage(); err != nil {
		return err
	}

	app.logger.Info("collab service stopped")
	return nil
}

func (app *Application) initStorage() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.db = db
	app.logger.Info("database migrations applied successfully")

	blobs, err := bolt.Open(app.cfg.BlobFile)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open blob store: %w", err)
	}
	app.blobs = blobs

	return nil
}

func (app *Application) closeStorage() error {
	var errs []error
	if app.blobs != nil {
		if err := app.blobs.Close(); err != nil {
			app.logger.Error("error closing blob store", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (app *Application) initNotify() error {
	var sink notify.Sink
	switch strings.ToLower(app.cfg.NotifyMode) {
	case NotifyModeSMTP:
		smtp, err := notify.NewSMTPSink(app.cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to configure smtp: %w", err)
		}
		sink = smtp
		app.logger.Info("invite notifications via smtp", "host", app.cfg.SMTP.Host)
	default:
		sink = notify.LogSink{}
	}

	app.dispatcher = notify.NewDispatcher(sink, app.cfg.NotifyTimeout)
	return nil
}

func (app *Application) initServices() {
	guard := &service.Guard{Store: app.db}

	app.userService = &service.UserService{Store: app.db}
	app.tokenService = &service.TokenService{
		KeyManager: app.keyManager,
		Issuer:     app.cfg.Issuer,
		Audience:   app.cfg.Audience,
		AccessTTL:  app.cfg.AccessTTL,
	}
	app.projectService = &service.ProjectService{
		Store:       app.db,
		Guard:       guard,
		Memberships: &service.MembershipService{Store: app.db},
		Blobs:       app.blobs,
	}
	app.inviteService = &service.InviteService{
		Store:    app.db,
		Guard:    guard,
		Notifier: app.dispatcher,
		Config: service.InviteConfig{
			FrontendURL: app.cfg.FrontendURL,
			Validity:    app.cfg.InviteValidity,
		},
	}
	app.documentService = &service.DocumentService{
		Store: app.db,
		Guard: guard,
		Blobs: app.blobs,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InviteRetention,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.blobs,
		app.cfg.RateLimit,
		app.logger,
	)

	router.UserService = app.userService
	router.TokenService = app.tokenService
	router.ProjectService = app.projectService
	router.InviteService = app.inviteService
	router.DocumentService = app.documentService
	router.MaxUploadBytes = app.cfg.MaxUploadBytes
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
