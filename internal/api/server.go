package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/timeliner/internal/config"
	"github.com/dgallion1/timeliner/internal/llm"
	"github.com/dgallion1/timeliner/internal/pipeline"
	"github.com/dgallion1/timeliner/internal/store"
)

// Server is the HTTP API server for timeliner.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *store.Store
	gen          llm.Generator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, ts *store.Store, gen llm.Generator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        ts,
		gen:          gen,
		log:          log,
		cfg:          cfg,
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

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/timelines", s.handleCreateTimeline)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/timelines", s.handleListTimelines)
		r.Get("/api/timelines/{timelineID}", s.handleGetTimeline)
		r.Get("/api/timelines/{timelineID}/html", s.handleGetTimelineHTML)
		r.Delete("/api/timelines/{timelineID}", s.handleDeleteTimeline)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
