// Package api provides the HTTP REST API server.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/csjayzz/medlink-er-coordination/internal/api/health"
	"github.com/csjayzz/medlink-er-coordination/internal/scribe"
	"github.com/csjayzz/medlink-er-coordination/internal/session"
	"github.com/csjayzz/medlink-er-coordination/internal/triage"
)

// Config contains HTTP API server configuration.
type Config struct {
	Address           string
	JWTSecret         []byte
	TokenTTL          time.Duration
	StreamMaxDuration time.Duration // Max lifetime for SSE queue stream connections
	Verbose           bool
}

// SetDefaults applies default values for missing configuration.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 12 * time.Hour
	}
	if c.StreamMaxDuration == 0 {
		c.StreamMaxDuration = 30 * time.Minute
	}
}

// Server is the HTTP API server.
type Server struct {
	config        *Config
	board         *triage.Board
	sessions      *session.Manager
	scribe        *scribe.Service
	server        *http.Server
	healthHandler *health.Handler
}

// New creates a new API server.
func New(cfg *Config, board *triage.Board, sessions *session.Manager, scribeService *scribe.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if board == nil {
		return nil, fmt.Errorf("board is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if scribeService == nil {
		return nil, fmt.Errorf("scribe service is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT secret is required")
	}

	cfg.SetDefaults()

	s := &Server{
		config:        cfg,
		board:         board,
		sessions:      sessions,
		scribe:        scribeService,
		healthHandler: health.NewHandler(),
	}

	router := s.setupRouter()

	s.server = &http.Server{
		Addr:        cfg.Address,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout is intentionally 0 (disabled) because the server
		// carries SSE queue streams and voice WebSocket sessions that
		// outlive any sane global deadline. Non-streaming handlers are
		// bounded by request context instead.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Run starts the HTTP server and blocks until context is canceled.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		log.Printf("HTTP API listening on %s", s.config.Address)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down HTTP API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.config.Address
}

// RegisterHealthChecker adds a health checker to the server.
func (s *Server) RegisterHealthChecker(c health.Checker) {
	if s.healthHandler != nil {
		s.healthHandler.RegisterChecker(c)
	}
}
