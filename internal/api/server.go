// Package api provides the REST and WebSocket surface of the booster
// simulator: pack generation endpoints, set listings, simulation charts
// and a broadcast hub for generation events.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ramonehamilton/booster-sim/internal/api/websocket"
	"github.com/ramonehamilton/booster-sim/internal/booster"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	cfg        *Config
	logger     *slog.Logger

	// WebSocket hub for real-time generation events.
	wsHub *websocket.Hub

	gen      *booster.Generator
	selector *booster.Selector
}

// Config holds configuration for the API server.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// NewServer creates a new API server around a pack generator.
func NewServer(cfg *Config, gen *booster.Generator, selector *booster.Selector, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:   chi.NewRouter(),
		cfg:      cfg,
		logger:   logger,
		wsHub:    websocket.NewHub(logger),
		gen:      gen,
		selector: selector,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Real IP detection
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(middleware.Logger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	// Request timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	// Start WebSocket hub
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "port", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server and the WebSocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()

	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.cfg.Port
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// WebSocketHub returns the WebSocket hub for external integration, e.g.
// broadcasting index reload events from the data watcher.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}
