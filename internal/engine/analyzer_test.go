package engine

import (
	"testing"
	"time"

	"github.com/mrcode/diabefit/internal/models"
)

// syntheticHistory builds 21 points for every hour of day (504 total), spread
// over 21 days. Hours without an override sample at 7.0 mmol/L; overridden
// hours cycle through the given values.
func syntheticHistory(overrides map[int][]float64) []models.GlucoseHistoryPoint {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	var points []models.GlucoseHistoryPoint
	for h := 0; h < 24; h++ {
		vals := overrides[h]
		for day := 0; day < 21; day++ {
			v := 7.0
			if len(vals) > 0 {
				v = vals[day%len(vals)]
			}
			points = append(points, models.GlucoseHistoryPoint{
				Timestamp: base.AddDate(0, 0, day).Add(time.Duration(h) * time.Hour),
				Value:     v,
			})
		}
	}
	return points
}

func suggestionTypes(report Report) []SuggestionType {
	types := make([]SuggestionType, len(report.Suggestions))
	for i, s := range report.Suggestions {
		types[i] = s.Type
	}
	return types
}

func TestAnalyze_InsufficientData(t *testing.T) {
	now := time.Now()
	settings := models.DefaultSettings()

	// 499 points of wildly elevated glucose still produce no suggestions.
	var history []models.GlucoseHistoryPoint
	for i := 0; i < MinHistoryPoints-1; i++ {
		history = append(history, models.GlucoseHistoryPoint{
			Timestamp: now.Add(-time.Duration(i) * 5 * time.Minute),
			Value:     16.0,
		})
	}

	report := Analyze(history, nil, settings, now)
	if report.SufficientData {
		t.Error("expected SufficientData to be false")
	}
	if len(report.Suggestions) != 0 {
		t.Errorf("expected no suggestions, got %d", len(report.Suggestions))
	}
	for h, b := range report.Hourly {
		if b.Hour != h {
			t.Fatalf("bucket %d carries hour %d", h, b.Hour)
		}
		if b.Samples != 0 || b.Average != 0 {
			t.Fatalf("bucket %d not zero-valued", h)
		}
	}
}

func TestAnalyze_NoPatterns(t *testing.T) {
	report := Analyze(syntheticHistory(nil), nil, models.DefaultSettings(), time.Now())
	if !report.SufficientData {
		t.Fatal("expected sufficient data")
	}
	if len(report.Suggestions) != 0 {
		t.Errorf("flat history produced suggestions: %v", suggestionTypes(report))
	}
	if report.Hourly[12].Samples != 21 {
		t.Errorf("hour 12 samples = %d, want 21", report.Hourly[12].Samples)
	}
}

func TestAnalyze_ElevatedWindow(t *testing.T) {
	history := syntheticHistory(map[int][]float64{14: {12.0}})

	report := Analyze(history, nil, models.DefaultSettings(), time.Now())
	if len(report.Suggestions) != 1 {
		t.Fatalf("suggestions = %v, want one", suggestionTypes(report))
	}
	s := report.Suggestions[0]
	if s.Type != SuggestionBasalIncrease {
		t.Errorf("type = %s, want %s", s.Type, SuggestionBasalIncrease)
	}
	if s.StartHour != 14 || s.EndHour != 17 {
		t.Errorf("window = [%d,%d), want [14,17)", s.StartHour, s.EndHour)
	}
}

func TestAnalyze_ElevatedWindowsDoNotOverlap(t *testing.T) {
	// Two qualifying hours inside one 3-hour window yield one suggestion.
	history := syntheticHistory(map[int][]float64{14: {12.0}, 16: {12.0}})

	report := Analyze(history, nil, models.DefaultSettings(), time.Now())
	if len(report.Suggestions) != 1 {
		t.Fatalf("suggestions = %v, want one", suggestionTypes(report))
	}
	if report.Suggestions[0].StartHour != 14 {
		t.Errorf("window starts at %d, want 14", report.Suggestions[0].StartHour)
	}
}

func TestAnalyze_DepressedWindow(t *testing.T) {
	// Six of 21 nights dip below 4.0; the hour averages 5.4 mmol/L.
	history := syntheticHistory(map[int][]float64{2: {3.5, 6.1, 6.1, 6.1}})

	report := Analyze(history, nil, models.DefaultSettings(), time.Now())
	if len(report.Suggestions) != 1 {
		t.Fatalf("suggestions = %v, want one", suggestionTypes(report))
	}
	s := report.Suggestions[0]
	if s.Type != SuggestionBasalDecrease {
		t.Errorf("type = %s, want %s", s.Type, SuggestionBasalDecrease)
	}
	if s.StartHour != 2 {
		t.Errorf("window starts at %d, want 2", s.StartHour)
	}
}

func TestAnalyze_DawnRise(t *testing.T) {
	history := syntheticHistory(map[int][]float64{4: {5.0}, 8: {7.5}})

	report := Analyze(history, nil, models.DefaultSettings(), time.Now())
	if len(report.Suggestions) != 1 {
		t.Fatalf("suggestions = %v, want one", suggestionTypes(report))
	}
	if report.Suggestions[0].Type != SuggestionDawnRise {
		t.Errorf("type = %s, want %s", report.Suggestions[0].Type, SuggestionDawnRise)
	}
}

func TestAnalyze_DawnRiseNeedsStrictExcess(t *testing.T) {
	// A rise of exactly 2.0 mmol/L does not qualify.
	history := syntheticHistory(map[int][]float64{4: {5.0}, 8: {7.0}})

	report := Analyze(history, nil, models.DefaultSettings(), time.Now())
	for _, s := range report.Suggestions {
		if s.Type == SuggestionDawnRise {
			t.Error("dawn suggestion emitted for a rise of exactly 2.0")
		}
	}
}

func TestAnalyze_TrainingHypo(t *testing.T) {
	now := time.Now()
	history := syntheticHistory(nil)

	mkWorkout := func(daysAgo int, hypo bool) models.WorkoutRecord {
		post := 6.0
		if hypo {
			post = 3.5
		}
		return models.NewWorkoutRecord(models.WorkoutCycling, now.AddDate(0, 0, -daysAgo), 45, 7.0, post)
	}

	tests := []struct {
		name     string
		workouts []models.WorkoutRecord
		want     bool
	}{
		{"half of four hypo", []models.WorkoutRecord{
			mkWorkout(1, true), mkWorkout(3, false), mkWorkout(5, true), mkWorkout(8, false),
		}, true},
		{"exactly one quarter does not fire", []models.WorkoutRecord{
			mkWorkout(1, true), mkWorkout(3, false), mkWorkout(5, false), mkWorkout(8, false),
		}, false},
		{"too few records", []models.WorkoutRecord{
			mkWorkout(1, true), mkWorkout(3, true),
		}, false},
		{"old workouts excluded", []models.WorkoutRecord{
			mkWorkout(1, false), mkWorkout(3, false), mkWorkout(20, true), mkWorkout(25, true),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Analyze(history, tt.workouts, models.DefaultSettings(), now)
			got := false
			for _, s := range report.Suggestions {
				if s.Type == SuggestionTrainingHypo {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("training-hypo emitted = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyze_EmissionOrder(t *testing.T) {
	now := time.Now()
	history := syntheticHistory(map[int][]float64{
		14: {12.0},                // elevated afternoon
		2:  {3.5, 6.1, 6.1, 6.1},  // nightly dips
		4:  {5.0}, 8: {7.5},       // dawn rise
	})
	workouts := []models.WorkoutRecord{
		models.NewWorkoutRecord(models.WorkoutCycling, now.AddDate(0, 0, -1), 45, 7.0, 3.5),
		models.NewWorkoutRecord(models.WorkoutCycling, now.AddDate(0, 0, -3), 45, 7.0, 3.5),
		models.NewWorkoutRecord(models.WorkoutCycling, now.AddDate(0, 0, -5), 45, 7.0, 6.0),
	}

	report := Analyze(history, workouts, models.DefaultSettings(), now)
	want := []SuggestionType{
		SuggestionBasalIncrease,
		SuggestionBasalDecrease,
		SuggestionDawnRise,
		SuggestionTrainingHypo,
	}
	got := suggestionTypes(report)
	if len(got) != len(want) {
		t.Fatalf("suggestions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("suggestions = %v, want %v", got, want)
		}
	}
}
