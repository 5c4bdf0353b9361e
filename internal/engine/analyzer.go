package engine

import (
	"fmt"
	"time"

	"github.com/mrcode/diabefit/internal/models"
)

// MinHistoryPoints is the minimum number of history points the analyzer
// needs before it reports anything (roughly one week at 5-minute sampling).
const MinHistoryPoints = 500

// SuggestionType identifies the kind of basal-rate suggestion.
type SuggestionType string

// Suggestion types, in emission order.
const (
	SuggestionBasalIncrease SuggestionType = "basal-increase"
	SuggestionBasalDecrease SuggestionType = "basal-decrease"
	SuggestionDawnRise      SuggestionType = "dawn-phenomenon"
	SuggestionTrainingHypo  SuggestionType = "training-hypo"
)

// Suggestion is one basal-rate adjustment recommendation.
type Suggestion struct {
	Type      SuggestionType `json:"type"`
	Message   string         `json:"message"`
	StartHour int            `json:"startHour"`
	EndHour   int            `json:"endHour"` // exclusive
}

// HourBucket aggregates all history points falling in one hour of day,
// regardless of calendar date.
type HourBucket struct {
	Hour          int     `json:"hour"`
	Samples       int     `json:"samples"`
	Average       float64 `json:"average"`
	FractionAbove float64 `json:"fractionAbove10"` // share of readings > 10.0 mmol/L
	FractionBelow float64 `json:"fractionBelow4"`  // share of readings < 4.0 mmol/L
}

// Report is the outcome of a pattern analysis run. When SufficientData is
// false the suggestion list is empty and the hourly profile is zero-valued;
// callers treat this as a normal outcome, not an error.
type Report struct {
	SufficientData bool           `json:"sufficientData"`
	Suggestions    []Suggestion   `json:"suggestions"`
	Hourly         [24]HourBucket `json:"hourlyProfile"`
}

// Dawn-phenomenon window: hour buckets checked for an early-morning rise.
const (
	dawnFirstHour = 4
	dawnLastHour  = 8
)

// Analyze buckets a multi-week glucose history by hour of day and surfaces
// time-of-day risk windows, a dawn-phenomenon rise, and training-correlated
// hypo risk. At least MinHistoryPoints history points are required; with
// fewer the analyzer never guesses.
func Analyze(history []models.GlucoseHistoryPoint, workouts []models.WorkoutRecord, settings models.Settings, now time.Time) Report {
	report := Report{}
	for h := range report.Hourly {
		report.Hourly[h].Hour = h
	}
	if len(history) < MinHistoryPoints {
		return report
	}
	report.SufficientData = true
	report.Suggestions = []Suggestion{}

	var sums [24]float64
	var above, below, counts [24]int
	for _, p := range history {
		h := p.Timestamp.Hour()
		sums[h] += p.Value
		counts[h]++
		if p.Value > 10.0 {
			above[h]++
		}
		if p.Value < 4.0 {
			below[h]++
		}
	}
	for h := 0; h < 24; h++ {
		b := &report.Hourly[h]
		b.Samples = counts[h]
		if counts[h] == 0 {
			continue
		}
		n := float64(counts[h])
		b.Average = sums[h] / n
		b.FractionAbove = float64(above[h]) / n
		b.FractionBelow = float64(below[h]) / n
	}

	target := settings.TargetGlucose

	// Elevated windows: report 3 hours from the first qualifying hour, then
	// skip ahead 2 hours so windows do not overlap.
	for h := 0; h < 24; h++ {
		b := report.Hourly[h]
		if b.Samples > 0 && b.Average > target+2 && b.FractionAbove > 0.25 {
			report.Suggestions = append(report.Suggestions, Suggestion{
				Type:      SuggestionBasalIncrease,
				StartHour: h,
				EndHour:   h + 3,
				Message:   fmt.Sprintf("Glucose runs high between %02d:00 and %02d:00 (average %.1f mmol/L). Consider a higher basal rate in this window.", h, h+3, b.Average),
			})
			h += 2
		}
	}

	// Depressed windows, same windowing.
	for h := 0; h < 24; h++ {
		b := report.Hourly[h]
		if b.Samples > 0 && b.Average < target-1.5 && b.FractionBelow > 0.10 {
			report.Suggestions = append(report.Suggestions, Suggestion{
				Type:      SuggestionBasalDecrease,
				StartHour: h,
				EndHour:   h + 3,
				Message:   fmt.Sprintf("Glucose runs low between %02d:00 and %02d:00 (average %.1f mmol/L). Consider a lower basal rate in this window.", h, h+3, b.Average),
			})
			h += 2
		}
	}

	if rise, ok := dawnRise(report.Hourly); ok && rise > 2.0 {
		report.Suggestions = append(report.Suggestions, Suggestion{
			Type:      SuggestionDawnRise,
			StartHour: 2,
			EndHour:   3,
			Message:   fmt.Sprintf("Glucose rises %.1f mmol/L between 04:00 and 08:00 (dawn phenomenon). Consider increasing basal earlier, around 02:00-03:00.", rise),
		})
	}

	if s, ok := trainingHypoSuggestion(workouts, now); ok {
		report.Suggestions = append(report.Suggestions, s)
	}

	return report
}

// dawnRise returns the average-glucose rise from the first to the last
// sampled hour bucket in the dawn window. ok is false when fewer than two
// of those hours carry samples.
func dawnRise(hourly [24]HourBucket) (float64, bool) {
	first, last := -1, -1
	for h := dawnFirstHour; h <= dawnLastHour; h++ {
		if hourly[h].Samples == 0 {
			continue
		}
		if first < 0 {
			first = h
		}
		last = h
	}
	if first < 0 || first == last {
		return 0, false
	}
	return hourly[last].Average - hourly[first].Average, true
}

// trainingHypoSuggestion checks the trailing 14 days of workouts for a
// pattern of post-exercise hypos. It requires at least 3 records, and a hypo
// fraction strictly above one quarter.
func trainingHypoSuggestion(workouts []models.WorkoutRecord, now time.Time) (Suggestion, bool) {
	cutoff := now.AddDate(0, 0, -14)
	var total, hypos int
	for i := range workouts {
		w := &workouts[i]
		if w.StartTime.Before(cutoff) || w.StartTime.After(now) {
			continue
		}
		total++
		if w.HypoFlag {
			hypos++
		}
	}
	if total < 3 {
		return Suggestion{}, false
	}
	if float64(hypos)/float64(total) <= 0.25 {
		return Suggestion{}, false
	}
	return Suggestion{
		Type:    SuggestionTrainingHypo,
		Message: fmt.Sprintf("%d of your last %d workouts ended in a hypo. Consider a reduced basal profile on training days to lower nighttime hypo risk.", hypos, total),
	}, true
}
