// Package httpapi exposes the grid engine over HTTP with gin.
// Endpoints are stateless: every request carries the board it acts on.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-2048/internal/config"
)

// Options configures a Server. A nil Store disables the scores endpoint.
type Options struct {
	Address    string
	Spawn4Prob float64
	Theme      config.ThemeConfig
	Store      ScoreLister
	Logger     *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	address string
	router  *gin.Engine
	logger  *log.Logger

	mu    sync.RWMutex
	theme config.ThemeConfig
	prob4 float64
}

// New creates a server with all routes registered.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		address: opts.Address,
		logger:  logger,
		theme:   opts.Theme,
		prob4:   opts.Spawn4Prob,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.loggingMiddleware())

	router.GET("/healthz", HealthHandler())

	v1 := router.Group("/api/v1")
	v1.POST("/move", MoveHandler())
	v1.POST("/spawn", SpawnHandler(s.Spawn4Prob))
	v1.POST("/can-move", CanMoveHandler())
	v1.POST("/score", ScoreHandler())
	v1.POST("/render", RenderHandler(s.Theme))
	v1.GET("/scores/:board", ScoresHandler(opts.Store))

	s.router = router
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Theme returns the current render theme.
func (s *Server) Theme() config.ThemeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Spawn4Prob returns the current probability of spawning a 4.
func (s *Server) Spawn4Prob() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prob4
}

// Apply swaps in the reloadable parts of cfg.
func (s *Server) Apply(cfg config.Config) {
	s.mu.Lock()
	s.theme = cfg.Theme
	s.prob4 = cfg.Board.Spawn4Prob
	s.mu.Unlock()
}

// WatchConfig applies changes to the config file at path until ctx is done.
func (s *Server) WatchConfig(ctx context.Context, path string) error {
	return config.Watch(ctx, path,
		func(cfg config.Config) {
			s.Apply(cfg)
			s.logger.Info("config reloaded", "path", path)
		},
		func(err error) {
			s.logger.Warn("config reload failed", "path", path, "error", err)
		},
	)
}

// loggingMiddleware logs each request.
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Error("request", fields...)
		} else {
			s.logger.Info("request", fields...)
		}
	}
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting HTTP server", "address", s.address)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("httpapi: server failed: %w", err)
	}
}
