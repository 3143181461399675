// Package server assembles the application: it opens the database, applies
// migrations, wires the repositories, services and worker adapter together,
// and runs the HTTP server until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fitplan/internal/logging"
	"fitplan/internal/server/config"
	"fitplan/internal/server/db"
	"fitplan/internal/server/httpapi"
	"fitplan/internal/server/repositories/users"
	"fitplan/internal/server/services"
	"fitplan/internal/server/worker"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := db.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	adapter, err := worker.NewAdapter(cfg.WorkerCommand, cfg.WorkerTimeout, logger.With("component", "worker"))
	if err != nil {
		return nil, fmt.Errorf("worker init error: %w", err)
	}

	us := services.NewUserService(users.NewPostgresRepository(conn), cfg)
	ps := services.NewPlanService(conn, adapter, logger.With("component", "plans"))

	srv := httpapi.NewServer(cfg, logger.With("component", "http"), us, ps)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
