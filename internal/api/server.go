package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/inkpost/inkpost/internal/assist"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/pipeline"
	"github.com/inkpost/inkpost/internal/render"
	"github.com/inkpost/inkpost/internal/store"
)

// Server is the HTTP API server for inkpost.
type Server struct {
	router       chi.Router
	store        *store.Store
	renderer     *render.Renderer
	orchestrator *pipeline.Orchestrator
	assist       *assist.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. client may be nil
// when no Anthropic key is configured; assist endpoints then respond
// with 503.
func NewServer(st *store.Store, renderer *render.Renderer, orch *pipeline.Orchestrator, client *assist.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:        st,
		renderer:     renderer,
		orchestrator: orch,
		assist:       client,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.AdminAPIKey, s.log))

		r.Get("/api/posts", s.handleListPosts)
		r.Get("/api/posts/{slug}", s.handleGetPost)
		r.Put("/api/posts/{slug}", s.handleSavePost)
		r.Delete("/api/posts/{slug}", s.handleDeletePost)
		r.Get("/api/posts/{slug}/revisions", s.handleListRevisions)
		r.Get("/api/posts/{slug}/revisions/{revID}", s.handleGetRevision)

		r.Post("/api/preview", s.handlePreview)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)

		r.With(RateLimit(s.assistLimiter())).Post("/api/assist", s.handleAssist)
		r.Get("/api/stats/assist", s.handleAssistStats)
	})

	s.router = r
}

// assistLimiter rate limits the assist endpoint. The budget is
// configured per minute; tollbooth takes requests per second.
func (s *Server) assistLimiter() *limiter.Limiter {
	lmt := tollbooth.NewLimiter(float64(s.cfg.AssistRatePerMinute)/60.0, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Hour,
	})
	lmt.SetBurst(s.cfg.AssistRatePerMinute)
	lmt.SetMessage(`{"error":"assist rate limit exceeded"}`)
	lmt.SetMessageContentType("application/json")
	return lmt
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
