// Package web exposes the task store, pages and activity history over a JSON HTTP API.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/tasktracker/internal/ports/primary"
)

const shutdownTimeout = 5 * time.Second

// Server is the tasktracker HTTP server
type Server struct {
	tasks    primary.TaskService
	pages    primary.PageService
	activity primary.ActivityService
	logger   *slog.Logger
	router   *gin.Engine
}

// NewServer creates a new web server
func NewServer(tasks primary.TaskService, pages primary.PageService, activity primary.ActivityService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(logger))

	s := &Server{
		tasks:    tasks,
		pages:    pages,
		activity: activity,
		logger:   logger,
		router:   router,
	}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.POST("/tasks/clear-completed", s.handleClearCompleted)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleEditTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.GET("/stats", s.handleStats)
		api.GET("/events", s.handleEvents)
		api.GET("/pages/:route", s.handleGetPage)
		if activity != nil {
			api.GET("/activity", s.handleListActivity)
		}
	}

	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
