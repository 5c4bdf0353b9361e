// Package api exposes the companion's local HTTP surface: logging events,
// reading derived status, readiness and carb-need estimates, the weekly
// schedule, and the pattern analysis report.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrcode/diabefit/internal/history"
	"github.com/mrcode/diabefit/internal/models"
	appsync "github.com/mrcode/diabefit/internal/sync"
	"github.com/mrcode/diabefit/internal/store"
)

// Server bundles the handlers with their dependencies.
type Server struct {
	store   *store.Store
	history *history.Store
	sync    *appsync.Service
	now     func() time.Time
}

// NewServer creates the API server.
func NewServer(st *store.Store, hist *history.Store, svc *appsync.Service) *Server {
	return &Server{store: st, history: hist, sync: svc, now: time.Now}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "diabefit"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events/insulin", s.logInsulin)
		r.Post("/events/carbs", s.logCarbs)
		r.Post("/events/meal", s.logMeal)
		r.Post("/events/glucose", s.logGlucose)
		r.Get("/events", s.listEvents)

		r.Get("/status", s.status)
		r.Get("/readiness", s.readiness)
		r.Post("/carbneed", s.carbNeed)
		r.Get("/analysis", s.analysis)

		r.Get("/workouts", s.listWorkouts)
		r.Post("/workouts/start", s.startWorkout)
		r.Post("/workouts/finish", s.finishWorkout)

		r.Get("/schedule", s.schedule)
		r.Post("/schedule/reschedule", s.reschedule)

		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.putSettings)

		r.Post("/wellbeing", s.logWellbeing)
		r.Get("/achievements", s.achievements)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps validation failures to 400 and everything else to 500.
func writeStoreError(w http.ResponseWriter, err error) {
	if models.IsValidationError(err) {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeError(w, err.Error(), http.StatusInternalServerError)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
