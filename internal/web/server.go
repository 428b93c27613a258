// Package web provides the HTTP API over the fee compliance pipeline:
// submission upload, record mutation, validation issues, and summary
// aggregates.
package web

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"eprfee/internal/config"
	"eprfee/internal/core"
	"eprfee/internal/web/middleware"
)

// ReloadFunc re-reads the reference tables and returns a fresh registry
// snapshot.
type ReloadFunc func(ctx context.Context) (*core.Registry, error)

// Server is the HTTP server for the EPR fee application.
//
// The core pipeline is single-owner: all handler access to the processor
// goes through mu, making the web layer the serializing caller the
// processor requires.
type Server struct {
	cfg    *config.Config
	router *chi.Mux
	server *http.Server
	reload ReloadFunc

	mu        sync.Mutex
	registry  *core.Registry
	processor *core.Processor
}

// NewServer creates a server over a loaded registry. reload may be nil,
// which disables the reference-reload endpoint.
func NewServer(cfg *config.Config, registry *core.Registry, reload ReloadFunc) *Server {
	s := &Server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		reload:    reload,
		registry:  registry,
		processor: core.NewProcessor(registry, resolutionMode(cfg)),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// resolutionMode maps the configured material-resolution name to the core
// mode. Config validation has already restricted the value.
func resolutionMode(cfg *config.Config) core.ResolutionMode {
	if strings.EqualFold(cfg.Processing.MaterialResolution, "strict") {
		return core.ResolutionStrict
	}
	return core.ResolutionLenient
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/reference/reload", s.handleReloadReference)

		r.Post("/submissions/upload", s.handleUploadSubmissions)

		r.Get("/records", s.handleListRecords)
		r.Post("/records", s.handleAddRecord)
		r.Put("/records/{index}", s.handleUpdateRecord)
		r.Delete("/records", s.handleClearRecords)

		r.Get("/issues", s.handleListIssues)

		r.Get("/summary/overview", s.handleOverview)
		r.Get("/summary/skus", s.handleTopSKUs)
		r.Get("/summary/vendors", s.handleVendorTotals)

		r.Get("/export/records", s.handleExportRecords)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
