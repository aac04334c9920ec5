package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/client/local"

	"github.com/meltforce/ironlog/internal/history"
	"github.com/meltforce/ironlog/internal/storage"
	"github.com/meltforce/ironlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions *workout.Service
	history  *history.Service
	users    *storage.DB
	lc       *local.Client
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, sessions *workout.Service, hist *history.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		sessions: sessions,
		history:  hist,
		users:    db,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables tailnet identity resolution via the given local
// client. Without it, every request runs as the dev user.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(Instrument)

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.identity)

		r.Get("/me", s.handleMe)
		r.Get("/sessions/active", s.handleActiveSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/history", s.handleHistory)
		r.Get("/history/previous-exercise", s.handlePreviousExercise)
		r.Get("/history/week", s.handleWeekStatus)
		r.Get("/history/summary", s.handleTrainingSummary)

		// Mutations require the API key.
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/sessions", s.handleStartSession)
			r.Post("/sessions/{id}/exercises", s.handleAddExercise)
			r.Post("/sessions/{id}/exercises/{exerciseID}/sets", s.handleAddSet)
			r.Post("/sessions/{id}/sets/{setID}/complete", s.handleCompleteSet)
			r.Post("/sessions/{id}/sets/undo", s.handleUndoLastSet)
			r.Post("/sessions/{id}/complete", s.handleCompleteSession)
			r.Post("/sessions/{id}/abandon", s.handleAbandonSession)
		})
	})
}
