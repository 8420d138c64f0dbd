package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docoutline.
type Server struct {
	router    chi.Router
	extractor *outline.Extractor
	stats     *pipeline.LatencyStats
	log       *slog.Logger
	cfg       config.Config

	// Serializes extraction so documents are processed one at a time.
	mu sync.Mutex
}

// NewServer creates and configures the HTTP server.
func NewServer(extractor *outline.Extractor, stats *pipeline.LatencyStats, log *slog.Logger, cfg config.Config) *Server {
	if stats == nil {
		stats = pipeline.NewLatencyStats(cfg.StatsWindow)
	}
	s := &Server{
		extractor: extractor,
		stats:     stats,
		log:       log,
		cfg:       cfg,
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

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.DocoutlineAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocoutlineAPIKey, s.log))
		}

		r.Post("/api/outline", s.handleOutline)
		r.Get("/api/stats", s.handleStats)

		r.Get("/api/outlines", s.handleListOutlines)
		r.Get("/api/outlines/{stem}", s.handleGetOutline)
		r.Delete("/api/outlines/{stem}", s.handleDeleteOutline)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
