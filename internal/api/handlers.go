package api

import (
	"net/http"
	"time"

	"github.com/mrcode/diabefit/internal/engine"
	"github.com/mrcode/diabefit/internal/models"
)

// --- Request/response types ---

// InsulinRequest is the body for POST /events/insulin.
type InsulinRequest struct {
	Amount float64            `json:"amount"`
	Kind   models.InsulinKind `json:"kind"`
}

// CarbsRequest is the body for POST /events/carbs.
type CarbsRequest struct {
	Grams float64                `json:"grams"`
	Class models.AbsorptionClass `json:"class"`
}

// MealRequest is the body for POST /events/meal.
type MealRequest struct {
	Description string  `json:"description"`
	Carbs       float64 `json:"carbs"`
	Insulin     float64 `json:"insulin"`
}

// GlucoseRequest is the body for POST /events/glucose.
type GlucoseRequest struct {
	Value float64 `json:"value"`
}

// CarbNeedRequest is the body for POST /carbneed. Glucose may be omitted to
// use the most recent stored reading.
type CarbNeedRequest struct {
	Glucose         *float64         `json:"glucose,omitempty"`
	DurationMinutes int              `json:"durationMinutes"`
	Intensity       models.Intensity `json:"intensity"`
}

// CarbNeedResponse is the body returned from POST /carbneed.
type CarbNeedResponse struct {
	Grams int `json:"grams"`
}

// StartWorkoutRequest is the body for POST /workouts/start.
type StartWorkoutRequest struct {
	Type       string  `json:"type"`
	GlucosePre float64 `json:"glucosePre"`
}

// FinishWorkoutRequest is the body for POST /workouts/finish.
type FinishWorkoutRequest struct {
	GlucosePost float64 `json:"glucosePost"`
}

// RescheduleRequest is the body for POST /schedule/reschedule.
type RescheduleRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// WellbeingRequest is the body for POST /wellbeing.
type WellbeingRequest struct {
	Energy int    `json:"energy"`
	Notes  string `json:"notes"`
}

// GlucoseStatus is the latest reading as reported by GET /status.
type GlucoseStatus struct {
	Value  float64              `json:"value"` // mmol/L
	Time   time.Time            `json:"time"`
	Source models.GlucoseSource `json:"source"`
}

// StatusResponse is the body returned from GET /status.
type StatusResponse struct {
	Glucose           *GlucoseStatus `json:"glucose"`
	Trend             models.Trend   `json:"trend"`
	IOB               float64        `json:"iob"` // units
	COB               float64        `json:"cob"` // grams
	MinutesSinceBolus *int           `json:"minutesSinceBolus"`
}

// --- Event handlers ---

func (s *Server) logInsulin(w http.ResponseWriter, r *http.Request) {
	var req InsulinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ev, err := s.store.LogInsulin(req.Amount, req.Kind)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) logCarbs(w http.ResponseWriter, r *http.Request) {
	var req CarbsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ev, err := s.store.LogCarbs(req.Grams, req.Class)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) logMeal(w http.ResponseWriter, r *http.Request) {
	var req MealRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ev, err := s.store.LogMeal(req.Description, req.Carbs, req.Insulin)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) logGlucose(w http.ResponseWriter, r *http.Request) {
	var req GlucoseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ev, err := s.store.LogGlucose(req.Value, models.SourceManual)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Events())
}

// --- Derived-state handlers ---

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	settings := s.store.Settings()
	events := s.store.Events()

	resp := StatusResponse{
		Trend: s.sync.Trend(),
		IOB:   engine.IOB(events, now, actionDuration(settings)),
		COB:   engine.COB(events, now),
	}
	if latest, ok := s.store.LatestGlucose(); ok {
		resp.Glucose = &GlucoseStatus{
			Value:  latest.Glucose,
			Time:   latest.Timestamp,
			Source: latest.Source,
		}
	}
	if since, ok := engine.TimeSinceLastBolus(events, now); ok {
		minutes := int(since.Minutes())
		resp.MinutesSinceBolus = &minutes
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	settings := s.store.Settings()
	events := s.store.Events()

	iob := engine.IOB(events, now, actionDuration(settings))
	var glucose *float64
	if latest, ok := s.store.LatestGlucose(); ok {
		v := latest.Glucose
		glucose = &v
	}
	writeJSON(w, http.StatusOK, engine.Readiness(glucose, settings, iob))
}

func (s *Server) carbNeed(w http.ResponseWriter, r *http.Request) {
	var req CarbNeedRequest
	if !decodeBody(w, r, &req) {
		return
	}

	now := s.now()
	settings := s.store.Settings()
	events := s.store.Events()

	glucose := req.Glucose
	if glucose == nil {
		if latest, ok := s.store.LatestGlucose(); ok {
			v := latest.Glucose
			glucose = &v
		}
	}

	grams, err := engine.CarbNeed(
		glucose,
		req.DurationMinutes,
		req.Intensity,
		settings,
		engine.COB(events, now),
		engine.IOB(events, now, actionDuration(settings)),
	)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CarbNeedResponse{Grams: grams})
}

func (s *Server) analysis(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	points, err := s.history.Points(r.Context(), time.Time{}, now)
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	report := engine.Analyze(points, s.store.Workouts(), s.store.Settings(), now)
	writeJSON(w, http.StatusOK, report)
}

// --- Workout handlers ---

func (s *Server) listWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Workouts())
}

func (s *Server) startWorkout(w http.ResponseWriter, r *http.Request) {
	var req StartWorkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.store.StartWorkout(req.Type, req.GlucosePre); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "started"})
}

func (s *Server) finishWorkout(w http.ResponseWriter, r *http.Request) {
	var req FinishWorkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := s.store.FinishWorkout(req.GlucosePost)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// --- Schedule handlers ---

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	week := make([]models.DaySchedule, 7)
	for day := 0; day < 7; day++ {
		week[day] = s.store.ScheduleForDay(day)
	}
	writeJSON(w, http.StatusOK, week)
}

func (s *Server) reschedule(w http.ResponseWriter, r *http.Request) {
	var req RescheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.store.RescheduleTraining(req.From, req.To); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rescheduled"})
}

// --- Settings / wellbeing / achievements ---

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if !decodeBody(w, r, &settings) {
		return
	}
	if err := s.store.UpdateSettings(settings); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) logWellbeing(w http.ResponseWriter, r *http.Request) {
	var req WellbeingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := s.store.LogWellbeing(req.Energy, req.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) achievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Achievements())
}

func actionDuration(settings models.Settings) time.Duration {
	return time.Duration(settings.InsulinActionHours * float64(time.Hour))
}
