// Package server initializes and runs the directory service: it wires the
// Postgres repositories to the REST endpoint and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"relay/internal/logging"
	"relay/internal/server/config"
	"relay/internal/server/httpapi"
	"relay/internal/server/repositories/repomanager"
)

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	api := httpapi.NewServer(cfg.EndpointAddr, repos, logger,
		[]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)

	return &App{config: cfg, logger: logger, api: api}, nil
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

	if err := app.api.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
