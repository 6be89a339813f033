package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/repvelocity/internal/ingest/imu"
	"github.com/meltforce/repvelocity/internal/kinematics"
	"github.com/meltforce/repvelocity/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	imu    *imu.Provider
	log    *slog.Logger
	apiKey string
	kin    kinematics.Config
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, provider *imu.Provider, apiKey string, kin kinematics.Config, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		imu:    provider,
		log:    log,
		apiKey: apiKey,
		kin:    kin,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleIngest)
	})
	s.router.With(APIKeyAuth(s.apiKey)).Delete("/api/v1/sessions/{id}", s.handleDeleteSession)

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/sessions/{id}/analysis", s.handleSessionAnalysis)
	s.router.Get("/api/v1/sessions/{id}/sets/{set}/velocity", s.handleSetVelocity)
	s.router.Get("/api/v1/stats", s.handleStats)
}
