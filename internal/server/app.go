// Package server initializes and runs the main application server.
// It wires configuration, storage and services, starts the HTTP endpoint
// and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/todovault/todovault/internal/logging"
	"github.com/todovault/todovault/internal/server/config"
	"github.com/todovault/todovault/internal/server/files"
	"github.com/todovault/todovault/internal/server/httpapi"
	"github.com/todovault/todovault/internal/server/shared/db"
	"github.com/todovault/todovault/internal/server/tasks"
	"github.com/todovault/todovault/internal/server/users"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	httpServer *httpapi.HTTPServer
	repos      db.RepositoryManager
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := users.NewService(rm.Users(), cfg)
	taskService := tasks.NewService(rm.Tasks(), cfg)

	fileService, err := files.NewService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("file service init error: %w", err)
	}

	httpServer := httpapi.NewHTTPServer(cfg, logger, userService, taskService, fileService)

	return &App{config: cfg, logger: logger, httpServer: httpServer, repos: rm}, nil
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

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
