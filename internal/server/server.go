// Package server provides the HTTP API for AskUni.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/config"
	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/retrieval"
)

// Generator produces a generated answer when retrieval defers. It is nil
// when generation is disabled.
type Generator interface {
	Generate(ctx context.Context, question string, refs []models.Reference, patternHint string) (string, error)
}

// Server is the HTTP server for the AskUni API.
type Server struct {
	orch      *retrieval.Orchestrator
	generator Generator
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. generator may be
// nil; deferred queries then come back with an empty answer and the
// defer flag set.
func NewServer(orch *retrieval.Orchestrator, generator Generator, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		orch:      orch,
		generator: generator,
		config:    cfg,
		logger:    logger,
	}
}

// Handler builds the chi router with all API routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/query", s.handleQuery)
	r.Post("/api/v1/feedback", s.handleFeedback)
	r.Get("/api/v1/stats", s.handleStats)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
