// Package server initializes and runs the marketplace application server.
// It opens the database, runs migrations, selects the session backend, wires
// the services to the HTTP surface and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thriftedhq/thrifted/internal/logging"
	"github.com/thriftedhq/thrifted/internal/server/config"
	"github.com/thriftedhq/thrifted/internal/server/httpapi"
	"github.com/thriftedhq/thrifted/internal/server/hub"
	"github.com/thriftedhq/thrifted/internal/server/mail"
	"github.com/thriftedhq/thrifted/internal/server/ratelimit"
	"github.com/thriftedhq/thrifted/internal/server/repositories/repomanager"
	"github.com/thriftedhq/thrifted/internal/server/services"
	"github.com/thriftedhq/thrifted/internal/server/sessions"
	"github.com/thriftedhq/thrifted/internal/server/uploads"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions sessions.Store
	hub      *hub.Hub
	handler  http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var store sessions.Store
	if cfg.RedisURL != "" {
		store, err = sessions.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("session store error: %w", err)
		}
	} else {
		store = sessions.NewMemoryStore(cfg.SessionTTL)
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername,
		cfg.SMTPPassword, cfg.MailFrom)
	limiter := ratelimit.New(cfg.LoginRateAttempts, cfg.LoginRateWindow)
	files := uploads.NewS3Store(cfg.S3Bucket, cfg.S3Region, cfg.S3BaseEndpoint,
		cfg.S3PublicBaseURL, cfg.S3AccessKey, cfg.S3SecretKey)
	broadcastHub := hub.New(logger)

	userService := services.NewUserService(db, rm, store, mailer, limiter, cfg)
	productService := services.NewProductService(db, rm, broadcastHub)
	cartService := services.NewCartService(db, rm)
	orderService := services.NewOrderService(db, rm)

	api := httpapi.NewServer(userService, productService, cartService,
		orderService, store, files, broadcastHub, logger,
		cfg.SessionTTL, cfg.LoginRateWindow)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		sessions: store,
		hub:      broadcastHub,
		handler:  api.Handler(),
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

// Run serves HTTP until ctx is cancelled or a signal arrives, then shuts
// down gracefully.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handler,
	}

	errChan := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}

	app.hub.Close()
	if err := app.sessions.Close(); err != nil {
		app.logger.Error(ctx, "closing session store", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	return nil
}
