package models

import (
	"testing"
	"time"
)

func TestNewWorkoutRecord_HypoFlag(t *testing.T) {
	start := time.Now().Add(-45 * time.Minute)

	tests := []struct {
		name        string
		glucosePost float64
		hypo        bool
	}{
		{"clearly above", 6.5, false},
		{"at threshold", 4.0, false},
		{"just below", 3.9, true},
		{"severe", 2.8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewWorkoutRecord(WorkoutCycling, start, 45, 7.0, tt.glucosePost)
			if rec.HypoFlag != tt.hypo {
				t.Errorf("HypoFlag = %v, want %v", rec.HypoFlag, tt.hypo)
			}
		})
	}
}

func TestNewWellbeingEntry_Validation(t *testing.T) {
	now := time.Now()

	for _, energy := range []int{1, 3, 5} {
		if _, err := NewWellbeingEntry(energy, "", now); err != nil {
			t.Errorf("energy %d: unexpected error %v", energy, err)
		}
	}
	for _, energy := range []int{0, 6, -1} {
		if _, err := NewWellbeingEntry(energy, "", now); err == nil {
			t.Errorf("energy %d: expected error", energy)
		}
	}
}

func TestAchievementTitle(t *testing.T) {
	if got := AchievementTitle(AchievementFirstWorkout); got != "First workout completed" {
		t.Errorf("got %q", got)
	}
	// Unknown IDs fall back to the ID itself.
	if got := AchievementTitle("mystery"); got != "mystery" {
		t.Errorf("got %q", got)
	}
}
