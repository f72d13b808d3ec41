// Package httpapi exposes the REST surface: public registration and login
// plus token-guarded task, search, download and image endpoints.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/todovault/todovault/internal/logging"
	"github.com/todovault/todovault/internal/server/config"
	"github.com/todovault/todovault/internal/server/files"
	"github.com/todovault/todovault/internal/server/tasks"
	"github.com/todovault/todovault/internal/server/users"
)

type HTTPServer struct {
	address   string
	echo      *echo.Echo
	logger    logging.Logger
	users     *users.Service
	tasks     *tasks.Service
	files     *files.Service
	jwtSecret []byte
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us *users.Service, ts *tasks.Service, fs *files.Service) *HTTPServer {

	s := &HTTPServer{
		address:   cfg.EndpointAddr,
		logger:    l.With("module", "http_server"),
		users:     us,
		tasks:     ts,
		files:     fs,
		jwtSecret: []byte(cfg.SecretKey),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api := e.Group("/api")
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	protected := api.Group("", s.requireAuth)
	protected.GET("/me", s.handleMe)
	protected.GET("/todos", s.handleListTasks)
	protected.GET("/search", s.handleSearchTasks)
	protected.POST("/todos", s.handleCreateTask)
	protected.PUT("/todos/:id", s.handleUpdateTask)
	protected.DELETE("/todos/:id", s.handleDeleteTask)
	protected.POST("/resize-png", s.handleResizePNG)

	e.GET("/download", s.handleDownload, s.requireAuth)

	s.echo = e

	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
