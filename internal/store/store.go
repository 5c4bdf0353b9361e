// Package store owns all persisted application state: the append-only event
// log, workout and wellbeing records, achievements, and the therapy
// settings. Every mutation rewrites the full snapshot; every computation
// elsewhere works on read-only copies handed out by this package.
package store

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mrcode/diabefit/internal/models"
)

// Store is the event log store. Writers are serialized by the mutex; reads
// hand out copies so callers can never mutate owned state.
type Store struct {
	mu    sync.RWMutex
	path  string
	now   func() time.Time
	state snapshot
}

// Open loads the snapshot at path, falling back to defaults when the file is
// missing or malformed.
func Open(path string) (*Store, error) {
	snap, err := loadSnapshot(path)
	if err != nil {
		slog.Warn("state snapshot unusable, starting from defaults", "path", path, "err", err)
	}
	return &Store{path: path, now: time.Now, state: snap}, nil
}

// persistLocked writes the snapshot. Callers hold the write lock.
func (s *Store) persistLocked() error {
	return writeSnapshot(s.path, s.state)
}

func (s *Store) appendEvent(ev models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Events = append(s.state.Events, ev)
	if err := s.persistLocked(); err != nil {
		s.state.Events = s.state.Events[:len(s.state.Events)-1]
		return models.Event{}, err
	}
	return ev, nil
}

// LogInsulin appends an insulin dose event.
func (s *Store) LogInsulin(amount float64, kind models.InsulinKind) (models.Event, error) {
	ev, err := models.NewInsulinEvent(amount, kind, s.now())
	if err != nil {
		return models.Event{}, err
	}
	return s.appendEvent(ev)
}

// LogCarbs appends a carbohydrate intake event.
func (s *Store) LogCarbs(grams float64, class models.AbsorptionClass) (models.Event, error) {
	ev, err := models.NewCarbEvent(grams, class, s.now())
	if err != nil {
		return models.Event{}, err
	}
	return s.appendEvent(ev)
}

// LogMeal appends a composite meal event contributing to both decay pools.
func (s *Store) LogMeal(description string, carbs, insulin float64) (models.Event, error) {
	ev, err := models.NewMealEvent(description, carbs, insulin, s.now())
	if err != nil {
		return models.Event{}, err
	}
	return s.appendEvent(ev)
}

// LogGlucose appends a glucose reading stamped with the current time.
func (s *Store) LogGlucose(value float64, source models.GlucoseSource) (models.Event, error) {
	return s.LogGlucoseAt(value, source, s.now())
}

// LogGlucoseAt appends a glucose reading with an explicit timestamp, used
// for monitor readings that carry their own measurement time.
func (s *Store) LogGlucoseAt(value float64, source models.GlucoseSource, at time.Time) (models.Event, error) {
	ev, err := models.NewGlucoseEvent(value, source, at)
	if err != nil {
		return models.Event{}, err
	}
	return s.appendEvent(ev)
}

// Events returns a copy of the full event log in insertion order.
func (s *Store) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.state.Events))
	copy(out, s.state.Events)
	return out
}

// LatestGlucose returns the most recent glucose reading, if any.
func (s *Store) LatestGlucose() (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest models.Event
	var found bool
	for i := range s.state.Events {
		e := &s.state.Events[i]
		if e.Kind != models.EventGlucose {
			continue
		}
		if !found || e.Timestamp.After(latest.Timestamp) {
			latest = *e
			found = true
		}
	}
	return latest, found
}

// Workout session lifecycle

// ErrWorkoutInProgress and ErrNoActiveWorkout guard the session lifecycle.
var (
	ErrWorkoutInProgress = models.NewValidationError("a workout is already in progress")
	ErrNoActiveWorkout   = models.NewValidationError("no workout in progress")
)

// StartWorkout opens a workout session. The record itself is only created
// when the session finishes.
func (s *Store) StartWorkout(workoutType string, glucosePre float64) error {
	if glucosePre < models.GlucoseMin || glucosePre > models.GlucoseMax {
		return models.NewValidationError("pre-workout glucose out of range")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Active != nil {
		return ErrWorkoutInProgress
	}
	s.state.Active = &activeWorkout{
		Type:       workoutType,
		StartedAt:  s.now(),
		GlucosePre: glucosePre,
	}
	if err := s.persistLocked(); err != nil {
		s.state.Active = nil
		return err
	}
	return nil
}

// FinishWorkout closes the active session, fixing the hypo flag from the
// post-workout glucose at creation time, and evaluates achievements.
func (s *Store) FinishWorkout(glucosePost float64) (models.WorkoutRecord, error) {
	if glucosePost < models.GlucoseMin || glucosePost > models.GlucoseMax {
		return models.WorkoutRecord{}, models.NewValidationError("post-workout glucose out of range")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Active == nil {
		return models.WorkoutRecord{}, ErrNoActiveWorkout
	}
	active := s.state.Active
	now := s.now()
	duration := int(now.Sub(active.StartedAt).Minutes())
	rec := models.NewWorkoutRecord(active.Type, active.StartedAt, duration, active.GlucosePre, glucosePost)

	s.state.Workouts = append(s.state.Workouts, rec)
	s.state.Active = nil
	s.evaluateAchievementsLocked(now)

	if err := s.persistLocked(); err != nil {
		return models.WorkoutRecord{}, err
	}
	return rec, nil
}

// ActiveWorkout reports the in-progress session, if any.
func (s *Store) ActiveWorkout() (workoutType string, startedAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Active == nil {
		return "", time.Time{}, false
	}
	return s.state.Active.Type, s.state.Active.StartedAt, true
}

// Workouts returns a copy of all completed workout records.
func (s *Store) Workouts() []models.WorkoutRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WorkoutRecord, len(s.state.Workouts))
	copy(out, s.state.Workouts)
	return out
}

// WorkoutsSince returns completed workouts starting at or after t.
func (s *Store) WorkoutsSince(t time.Time) []models.WorkoutRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.WorkoutRecord
	for _, w := range s.state.Workouts {
		if !w.StartTime.Before(t) {
			out = append(out, w)
		}
	}
	return out
}

// LogWellbeing appends a subjective wellbeing entry.
func (s *Store) LogWellbeing(energy int, notes string) (models.WellbeingEntry, error) {
	entry, err := models.NewWellbeingEntry(energy, notes, s.now())
	if err != nil {
		return models.WellbeingEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Wellbeing = append(s.state.Wellbeing, entry)
	if err := s.persistLocked(); err != nil {
		s.state.Wellbeing = s.state.Wellbeing[:len(s.state.Wellbeing)-1]
		return models.WellbeingEntry{}, err
	}
	return entry, nil
}

// Achievements returns a copy of all earned achievements.
func (s *Store) Achievements() []models.Achievement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Achievement, len(s.state.Achievements))
	copy(out, s.state.Achievements)
	return out
}

// Settings returns the current therapy settings.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// UpdateSettings replaces the settings after validation.
func (s *Store) UpdateSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.Settings
	s.state.Settings = settings
	if err := s.persistLocked(); err != nil {
		s.state.Settings = prev
		return err
	}
	return nil
}

// Schedule

// RescheduleTraining moves the training of one weekday to another. The
// original day becomes a rest day.
func (s *Store) RescheduleTraining(fromDay, toDay int) error {
	if fromDay < 0 || fromDay > 6 || toDay < 0 || toDay > 6 {
		return models.NewValidationError("day must be between 0 (Sunday) and 6 (Saturday)")
	}
	if fromDay == toDay {
		return models.NewValidationError("training is already on that day")
	}
	if models.WeeklySchedule[fromDay].IsRest() {
		return models.NewValidationError("nothing to move on a rest day")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.state.Rescheduled[fromDay]
	s.state.Rescheduled[fromDay] = toDay
	if err := s.persistLocked(); err != nil {
		if had {
			s.state.Rescheduled[fromDay] = prev
		} else {
			delete(s.state.Rescheduled, fromDay)
		}
		return err
	}
	return nil
}

// ScheduleForDay resolves the training plan for a weekday, honoring
// reschedules.
func (s *Store) ScheduleForDay(day int) models.DaySchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.TrainingForDay(day, s.state.Rescheduled)
}

// Achievements evaluation

func (s *Store) hasAchievementLocked(id string) bool {
	for i := range s.state.Achievements {
		if s.state.Achievements[i].ID == id {
			return true
		}
	}
	return false
}

func (s *Store) earnLocked(id string, at time.Time) {
	if s.hasAchievementLocked(id) {
		return
	}
	s.state.Achievements = append(s.state.Achievements, models.Achievement{
		ID:       id,
		Title:    models.AchievementTitle(id),
		EarnedAt: at,
	})
}

// evaluateAchievementsLocked runs after a workout finishes. Achievements are
// only ever added, never revoked.
func (s *Store) evaluateAchievementsLocked(now time.Time) {
	n := len(s.state.Workouts)
	if n >= 1 {
		s.earnLocked(models.AchievementFirstWorkout, now)
	}
	if n >= 5 {
		s.earnLocked(models.AchievementFiveWorkouts, now)
	}
	if n >= 25 {
		s.earnLocked(models.AchievementManyWorkouts, now)
	}
	if hasDayStreak(s.state.Workouts, 7) {
		s.earnLocked(models.AchievementWeeklyStreak, now)
	}
}

// hasDayStreak reports whether the workouts cover length consecutive
// calendar days, each with at least one session.
func hasDayStreak(workouts []models.WorkoutRecord, length int) bool {
	if len(workouts) == 0 {
		return false
	}
	daySet := make(map[string]time.Time)
	for _, w := range workouts {
		day := w.StartTime.Truncate(24 * time.Hour)
		daySet[day.Format("2006-01-02")] = day
	}
	days := make([]time.Time, 0, len(daySet))
	for _, d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			streak++
			if streak >= length {
				return true
			}
		} else {
			streak = 1
		}
	}
	return streak >= length
}
