// Package server initializes and runs the Postboard API server. It opens the
// database, runs migrations, wires repositories, services and the HTTP
// router, and handles graceful shutdown.
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
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mzunohkaru/postboard/internal/logging"
	"github.com/mzunohkaru/postboard/internal/server/auth"
	"github.com/mzunohkaru/postboard/internal/server/config"
	"github.com/mzunohkaru/postboard/internal/server/httpapi"
	"github.com/mzunohkaru/postboard/internal/server/migrations"
	postsrepo "github.com/mzunohkaru/postboard/internal/server/repositories/posts"
	usersrepo "github.com/mzunohkaru/postboard/internal/server/repositories/users"
	"github.com/mzunohkaru/postboard/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	tokens := auth.NewTokenService(
		[]byte(cfg.AccessTokenSecret),
		[]byte(cfg.RefreshTokenSecret),
		cfg.AccessTokenValidityDuration,
		cfg.RefreshTokenValidityDuration,
	)

	userService := services.NewUserService(usersrepo.NewPostgresRepository(db), tokens)
	postService := services.NewPostService(postsrepo.NewPostgresRepository(db))

	handler := httpapi.NewHandler(userService, postService, tokens, logger,
		cfg.RefreshTokenValidityDuration, cfg.Production)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		router: httpapi.NewRouter(handler, logger),
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:         app.config.EndpointAddr,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return app.db.Close()
}
