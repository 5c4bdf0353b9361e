package models

import "testing"

func TestIntensity_CarbsPerHour(t *testing.T) {
	tests := []struct {
		intensity Intensity
		expected  int
		ok        bool
	}{
		{IntensityLow, 20, true},
		{IntensityMedium, 40, true},
		{IntensityHigh, 60, true},
		{Intensity("extreme"), 0, false},
		{Intensity(""), 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.intensity.CarbsPerHour()
		if got != tt.expected || ok != tt.ok {
			t.Errorf("CarbsPerHour(%s) = (%d, %v), want (%d, %v)", tt.intensity, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestTrainingForDay_NoReschedules(t *testing.T) {
	for day := 0; day < 7; day++ {
		got := TrainingForDay(day, nil)
		if got.Title != WeeklySchedule[day].Title {
			t.Errorf("day %d: got %q, want %q", day, got.Title, WeeklySchedule[day].Title)
		}
	}
}

func TestTrainingForDay_Rescheduled(t *testing.T) {
	// Monday's ride moved to Sunday.
	rescheduled := map[int]int{1: 0}

	sunday := TrainingForDay(0, rescheduled)
	if sunday.Type != WorkoutCycling {
		t.Errorf("target day type = %s, want %s", sunday.Type, WorkoutCycling)
	}
	if sunday.Title != WeeklySchedule[1].Title {
		t.Errorf("target day title = %q, want %q", sunday.Title, WeeklySchedule[1].Title)
	}

	monday := TrainingForDay(1, rescheduled)
	if !monday.IsRest() {
		t.Errorf("vacated day should be a rest day, got %s", monday.Type)
	}
}

func TestTrainingForDay_UnrelatedDayUnchanged(t *testing.T) {
	rescheduled := map[int]int{1: 0}
	wednesday := TrainingForDay(3, rescheduled)
	if wednesday.Title != WeeklySchedule[3].Title {
		t.Errorf("unrelated day changed: got %q, want %q", wednesday.Title, WeeklySchedule[3].Title)
	}
}
