// Package server exposes figure rendering and marker expansion over HTTP.
//
// # Routes
//
//	GET  /healthz               liveness
//	GET  /v1/kinds              renderable figure kinds
//	POST /v1/charts/{kind}      {"title": "...", "series": [{"label": "a", "value": 1}]}
//	POST /v1/diagrams/{kind}    {"fields": ["..."]} or {"raw": "a | b | c"}
//	POST /v1/expand             {"markdown": "...", "slug": "...", "mode": "inline"}
//	GET  /v1/posts/{slug}/figures  published figures of a post
//
// Figure routes answer with image/svg+xml. Errors are JSON:
//
//	{"error": {"code": "NOT_APPLICABLE", "message": "..."}, "request_id": "..."}
//
// Every response carries an X-Request-ID header.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/figurine/pkg/pipeline"
)

// Config holds HTTP settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// Server serves the figure API.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	defaults   pipeline.Options
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. defaults supplies the expansion settings requests
// do not override (theme, caption, concurrency, base URL).
func New(runner *pipeline.Runner, cfg Config, defaults pipeline.Options, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		defaults: defaults,
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(requestID, s.accessLog, securityHeaders, s.limitBody)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/kinds", s.handleKinds)
		r.Post("/charts/{kind}", s.handleChart)
		r.Post("/diagrams/{kind}", s.handleDiagram)
		r.Post("/expand", s.handleExpand)
		r.Get("/posts/{slug}/figures", s.handleFigures)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	s.router = r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address. It blocks until the server stops
// and returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.logger.Info("listening", "addr", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
