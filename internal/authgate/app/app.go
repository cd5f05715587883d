// Package app wires configuration, storage, services and the HTTP server into
// a runnable application.
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/authgate/internal/authgate/http"
	"github.com/aussiebroadwan/authgate/internal/authgate/notify"
	"github.com/aussiebroadwan/authgate/internal/authgate/service"
	"github.com/aussiebroadwan/authgate/internal/authgate/store"
	"github.com/aussiebroadwan/authgate/internal/authgate/store/drivers/sqlite"
	"github.com/aussiebroadwan/authgate/pkg/cryptox"
	"github.com/aussiebroadwan/authgate/pkg/identity"
	"github.com/aussiebroadwan/authgate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	verifier identity.Verifier
	notifier notify.Notifier
	sealer   *cryptox.Sealer

	sessionService   *service.SessionService
	twoFactorService *service.TwoFactorService
	totpService      *service.TOTPService
	housekeeper      *service.Housekeeper

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "authgate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	verifier, err := buildVerifier(cfg)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.verifier = verifier

	sealer, err := loadSealer(cfg.SealKeyFile)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.sealer = sealer

	notifier, err := buildNotifier(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.notifier = notifier

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeper.Start()

	app.logger.Info("authgate starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the server, the housekeeper and the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down authgate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeper.Stop()

	if err := app.notifier.Close(); err != nil {
		app.logger.Error("error closing notifier", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("authgate stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		CookieName: app.cfg.CookieName,
		TTL:        app.cfg.SessionTTL,
		Secure:     app.cfg.CookieSecure,
	}

	app.twoFactorService = &service.TwoFactorService{
		Store:    app.db,
		Notifier: app.notifier,
		Cooldown: app.cfg.OTPCooldown,
		CodeTTL:  app.cfg.OTPCodeTTL,
	}

	app.totpService = &service.TOTPService{
		Store:  app.db,
		Sealer: app.sealer,
		Issuer: app.cfg.TOTPIssuer,
	}

	app.housekeeper = &service.Housekeeper{
		Store:    app.db,
		Interval: app.cfg.HousekeepingInterval,
		Logger:   app.logger,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		app.cfg.CookieName,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.SessionService = app.sessionService
	router.TwoFactorService = app.twoFactorService
	router.TOTPService = app.totpService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// buildVerifier constructs the identity token verifier from config.
func buildVerifier(cfg Config) (identity.Verifier, error) {
	jwtCfg := identity.JWTConfig{
		Issuer:   cfg.IdentityIssuer,
		Audience: cfg.IdentityAudience,
		Leeway:   cfg.IdentityLeeway,
	}

	switch {
	case cfg.IdentityHMACSecret != "":
		jwtCfg.HMACSecret = []byte(cfg.IdentityHMACSecret)
	case cfg.IdentityPublicKeyFile != "":
		pemData, err := os.ReadFile(cfg.IdentityPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read identity public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = pemData
	default:
		return nil, errors.New(
			"no identity verification key configured: set AUTHGATE_IDENTITY_HMAC_SECRET or AUTHGATE_IDENTITY_PUBLIC_KEY_FILE",
		)
	}

	verifier, err := identity.NewJWTVerifier(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity verifier: %w", err)
	}
	return verifier, nil
}

// buildNotifier picks the outgoing mail implementation. Without SMTP config a
// dev environment logs codes instead; anything else is a config error.
func buildNotifier(cfg Config, logger *slog.Logger) (notify.Notifier, error) {
	if cfg.SMTPHost == "" {
		if cfg.Env != "dev" {
			return nil, errors.New("SMTP_HOST is required outside dev environments")
		}
		logger.Warn("no SMTP configured, passcodes will be logged")
		return &notify.Log{Logger: logger}, nil
	}

	notifier, err := notify.NewSMTP(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp notifier: %w", err)
	}
	return notifier, nil
}

// loadSealer reads the seal key material, generating it on first run so fresh
// deployments work out of the box. Losing the file orphans stored seeds.
func loadSealer(path string) (*cryptox.Sealer, error) {
	keyMaterial, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		keyMaterial = make([]byte, 32)
		if _, err := rand.Read(keyMaterial); err != nil {
			return nil, fmt.Errorf("failed to generate seal key: %w", err)
		}
		if err := os.WriteFile(path, keyMaterial, 0o600); err != nil {
			return nil, fmt.Errorf("failed to persist seal key: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read seal key: %w", err)
	}

	sealer, err := cryptox.NewSealer(keyMaterial)
	if err != nil {
		return nil, fmt.Errorf("failed to build sealer: %w", err)
	}
	return sealer, nil
}
