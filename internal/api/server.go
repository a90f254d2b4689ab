package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GiovanoMP/projeto-kore-data/internal/churn"
	"github.com/GiovanoMP/projeto-kore-data/internal/config"
	"github.com/GiovanoMP/projeto-kore-data/internal/dataset"
	"github.com/GiovanoMP/projeto-kore-data/internal/filter"
	"github.com/GiovanoMP/projeto-kore-data/internal/report"
)

// Server represents the dashboard API server
type Server struct {
	config   config.Config
	handler  http.Handler
	handlers *Handlers
	server   *http.Server
	router   *chi.Mux
}

// NewServer creates a new API server over a loaded dataset
func NewServer(cfg config.Config, ds *dataset.Dataset) *Server {
	ch := churn.New(ds)
	fe := filter.NewEngine(ds, ch.Resolve)
	gen := report.NewGenerator(ds, ch, cfg.Report)
	handlers := NewHandlers(cfg, ds, fe, ch, gen)
	router := SetupRoutes(handlers)

	return &Server{
		config:   cfg,
		handler:  router,
		handlers: handlers,
		router:   router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Analytics queries run over the in-memory dataset; nothing here
		// should take longer than a few seconds.
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
