package models

import (
	"time"

	"github.com/google/uuid"
)

// HypoThreshold is the post-workout glucose level below which a workout is
// flagged as having ended in a hypo, in mmol/L.
const HypoThreshold = 4.0

// WorkoutRecord is a completed workout session. HypoFlag is fixed at
// creation time and never recomputed.
type WorkoutRecord struct {
	ID              string    `json:"id"`
	StartTime       time.Time `json:"startTime"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"durationMinutes"`
	GlucosePre      float64   `json:"glucosePre"`  // mmol/L
	GlucosePost     float64   `json:"glucosePost"` // mmol/L
	HypoFlag        bool      `json:"hypoFlag"`
}

// NewWorkoutRecord creates a finished workout record, deriving the hypo flag
// from the post-workout glucose.
func NewWorkoutRecord(workoutType string, start time.Time, durationMinutes int, glucosePre, glucosePost float64) WorkoutRecord {
	return WorkoutRecord{
		ID:              uuid.New().String(),
		StartTime:       start,
		Type:            workoutType,
		DurationMinutes: durationMinutes,
		GlucosePre:      glucosePre,
		GlucosePost:     glucosePost,
		HypoFlag:        glucosePost < HypoThreshold,
	}
}

// WellbeingEntry is a subjective note logged alongside the event log.
type WellbeingEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Energy    int       `json:"energy"` // 1 (drained) to 5 (great)
	Notes     string    `json:"notes,omitempty"`
}

// NewWellbeingEntry validates and creates a wellbeing entry.
func NewWellbeingEntry(energy int, notes string, at time.Time) (WellbeingEntry, error) {
	if energy < 1 || energy > 5 {
		return WellbeingEntry{}, NewValidationError("energy must be between 1 and 5")
	}
	return WellbeingEntry{Timestamp: at, Energy: energy, Notes: notes}, nil
}

// Achievement is an earned badge. Achievements are additive snapshot data
// and are never revoked once earned.
type Achievement struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	EarnedAt time.Time `json:"earnedAt"`
}

// Achievement IDs.
const (
	AchievementFirstWorkout = "first-workout"
	AchievementFiveWorkouts = "five-workouts"
	AchievementManyWorkouts = "twenty-five-workouts"
	AchievementWeeklyStreak = "seven-day-streak"
)

var achievementTitles = map[string]string{
	AchievementFirstWorkout: "First workout completed",
	AchievementFiveWorkouts: "Five workouts completed",
	AchievementManyWorkouts: "Twenty-five workouts completed",
	AchievementWeeklyStreak: "Trained seven days in a row",
}

// AchievementTitle returns the display title for an achievement ID.
func AchievementTitle(id string) string {
	if title, ok := achievementTitles[id]; ok {
		return title
	}
	return id
}
