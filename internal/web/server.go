// Package web serves the task list page and a JSON API over one controller.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"todolist/internal/controller"
	"todolist/internal/view"
)

const shutdownTimeout = 5 * time.Second

// Server is the todolist web server.
type Server struct {
	ctrl    *controller.Controller
	notices *controller.Queue
	logger  *log.Logger
	router  *gin.Engine
}

// NewServer creates a web server driving ctrl. notices must be the
// notifier ctrl was constructed with; it is drained into each response.
func NewServer(ctrl *controller.Controller, notices *controller.Queue, logger *log.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.SetHTMLTemplate(view.Templates)

	s := &Server{
		ctrl:    ctrl,
		notices: notices,
		logger:  logger,
		router:  router,
	}

	// Page routes
	router.GET("/", s.handleIndex)
	router.POST("/tasks", s.handleAdd)
	router.POST("/tasks/:id/toggle", s.handleToggle)
	router.POST("/tasks/:id/delete", s.handleDelete)
	router.POST("/filter/:filter", s.handleFilter)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleAPIList)
		api.POST("/tasks", s.handleAPIAdd)
		api.POST("/tasks/:id/toggle", s.handleAPIToggle)
		api.DELETE("/tasks/:id", s.handleAPIDelete)
		api.PUT("/filter", s.handleAPIFilter)
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the initial load in the background and serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	go func() {
		// Failures are already logged and queued as notices.
		_ = s.ctrl.Load(ctx)
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request through charmbracelet/log.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			logger.Warn("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}
