package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkwelldocs/md2docx/internal/branding"
	"github.com/inkwelldocs/md2docx/internal/config"
	"github.com/inkwelldocs/md2docx/internal/generator"
	"github.com/inkwelldocs/md2docx/internal/metrics"
)

// Server is the HTTP API server for md2docx.
type Server struct {
	router   chi.Router
	gen      *generator.Generator
	rec      *metrics.Recorder
	defaults branding.Config
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. defaults is the
// operator-level branding merged under every request's overrides.
func NewServer(gen *generator.Generator, defaults branding.Config, rec *metrics.Recorder, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		gen:      gen,
		rec:      rec,
		defaults: defaults,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.rec != nil {
		r.Method(http.MethodGet, "/metrics", s.rec.HTTPHandler())
	}

	// Authenticated endpoints. An empty key means auth is disabled.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/convert/file", s.handleConvertFile)
		r.Post("/api/parse", s.handleParse)
		r.Get("/api/branding/sample", s.handleBrandingSample)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
