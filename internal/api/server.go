// Package api serves the prerequisite explorer over HTTP using chi for routing
// and huma for typed operations.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prereqs/prereqs-server/internal/http/response"
	"github.com/prereqs/prereqs-server/internal/metrics"
	"github.com/prereqs/prereqs-server/internal/ratelimit"
	"github.com/prereqs/prereqs-server/internal/service"
)

// SnapshotHeader carries the id of the catalog snapshot that served a response.
const SnapshotHeader = "X-Catalog-Snapshot"

// Options configures the HTTP surface.
type Options struct {
	Version            string
	CORSAllowedOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalogs *service.CatalogService
	metrics  *metrics.Registry
	limiter  *ratelimit.KeyedRateLimiter
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates the HTTP server with middleware and routes configured.
// m and limiter may be nil to disable metrics and rate limiting.
func NewServer(catalogs *service.CatalogService, m *metrics.Registry, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}

	s := &Server{
		catalogs: catalogs,
		metrics:  m,
		limiter:  limiter,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Prereqs API", opts.Version)
	humaConfig.Info.Description = "Course catalogs with transitive prerequisite and postrequisite views."
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerCatalogRoutes()
	s.registerSearchRoutes()

	if m != nil {
		s.router.Handle("/metrics", m.Handler())
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.URL.Path, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{SnapshotHeader, "X-Request-Id"},
		MaxAge:         300,
	}))
	if s.metrics != nil {
		s.router.Use(s.recordMetrics)
	}
	if s.limiter != nil {
		s.router.Use(s.rateLimit)
	}
	s.router.Use(s.snapshotHeader)
}
