// Package server initializes and runs the application server.
// It opens the database, runs migrations, wires the services and the bot
// engine, and starts the webhook HTTP server with graceful shutdown.
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
	"sync"
	"syscall"
	"time"

	"github.com/AKupriichuk/CV-on-the-Go/internal/logging"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/bot"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/config"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/httpapi"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/render"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/repositories/repomanager"
	"github.com/AKupriichuk/CV-on-the-Go/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *httpapi.Handler
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	renderer := &render.ChromedpRenderer{
		ChromePath: c.ChromePath,
		Timeout:    c.RenderTimeout,
	}

	sessionService := services.NewSessionService(db, m)
	documentService := services.NewDocumentService(db, m, renderer, c)
	engine := bot.NewEngine(sessionService, documentService, logger)
	handler := httpapi.NewHandler(engine, documentService, logger)

	return &App{config: c, logger: logger, db: db, handler: handler}, nil
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

	srv := &http.Server{
		Addr:         app.config.EndpointAddrHTTP,
		Handler:      app.handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * app.config.RenderTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "server shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
}
