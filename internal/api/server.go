// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/fisher/internal/api/middleware"
	"github.com/newthinker/fisher/internal/cache"
	"github.com/newthinker/fisher/internal/core"
	"github.com/newthinker/fisher/internal/metrics"
)

// Analyzer is the part of app.App the server drives
type Analyzer interface {
	Analyze(ctx context.Context, tickers []string) (map[string]core.CompositeResult, error)
	GetWatchlist() []string
}

// Dependencies holds the services the routes read from
type Dependencies struct {
	App     Analyzer
	Cache   cache.Store
	Metrics *metrics.Registry // optional
}

// Config holds server configuration
type Config struct {
	Addr        string
	MetricsPath string
	APIKey      string
}

// Server is the status HTTP server run alongside watch mode
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	deps       Dependencies
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.App == nil || deps.Cache == nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("server requires app and cache"))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{
		logger: logger,
		mux:    mux,
		deps:   deps,
	}
	s.setupRoutes(cfg)

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) {
	auth := middleware.APIKeyAuth(cfg.APIKey)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.Handle("GET /api/v1/tickers", auth(http.HandlerFunc(s.handleTickers)))
	s.mux.Handle("GET /api/v1/analysis/{ticker}", auth(http.HandlerFunc(s.handleGetAnalysis)))
	s.mux.Handle("POST /api/v1/analysis", auth(http.HandlerFunc(s.handleRunAnalysis)))

	if s.deps.Metrics != nil && cfg.MetricsPath != "" {
		s.mux.Handle("GET "+cfg.MetricsPath, s.deps.Metrics.Handler())
	}
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
