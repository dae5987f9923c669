package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/claude/pushpull/internal/history"
	"github.com/claude/pushpull/internal/routine"
	"github.com/claude/pushpull/internal/session"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions *session.Manager
	routines *routine.Service
	history  *history.Service
	unit     string
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured. unit is the weight
// unit used for FIT export conversion.
func New(sessions *session.Manager, routines *routine.Service, hist *history.Service, unit string, log *slog.Logger) *Server {
	s := &Server{
		sessions: sessions,
		routines: routines,
		history:  hist,
		unit:     unit,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/exercises", s.handleExercises)

	s.router.Route("/api/v1/routines/{type}", func(r chi.Router) {
		r.Get("/", s.handleGetRoutine)
		r.Put("/", s.handleSaveRoutine)
		r.Delete("/", s.handleResetRoutine)
		r.Post("/exercises", s.handleAddRoutineExercise)
		r.Patch("/exercises/{index}", s.handleUpdateRoutineExercise)
		r.Delete("/exercises/{index}", s.handleRemoveRoutineExercise)
		r.Post("/move", s.handleMoveRoutineExercise)
	})

	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleAbandonSession)
		r.Post("/warmup/next", s.sessionAction(func(_ *http.Request, sess *session.Session) error {
			return sess.NextWarmup()
		}))
		r.Post("/warmup/skip", s.sessionAction(func(_ *http.Request, sess *session.Session) error {
			return sess.SkipWarmup()
		}))
		r.Put("/inputs", s.sessionAction(s.updateInputs))
		r.Post("/sets", s.sessionAction(func(r *http.Request, sess *session.Session) error {
			return sess.CompleteSet(r.Context())
		}))
		r.Post("/rest/skip", s.sessionAction(func(_ *http.Request, sess *session.Session) error {
			return sess.SkipRest()
		}))
		r.Post("/resync", s.sessionAction(func(_ *http.Request, sess *session.Session) error {
			sess.Resync()
			return nil
		}))
	})

	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/last", s.handleLastWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
	s.router.Get("/api/v1/workouts/{id}/fit", s.handleExportWorkout)
}

// MountMCP serves an MCP handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
