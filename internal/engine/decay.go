// Package engine implements the physiological estimation engine: insulin and
// carbohydrate decay models, the training-readiness score, the
// carbohydrate-need estimate, and the pattern analysis over glucose history.
// Every function is a pure computation over its inputs and an explicit now.
package engine

import (
	"time"

	"github.com/mrcode/diabefit/internal/models"
)

// linearRemaining is the shared decay curve: the full amount at elapsed zero,
// falling linearly to zero at the end of the duration. Future-dated events
// (negative elapsed, clock skew) and fully decayed events contribute nothing.
func linearRemaining(amount float64, elapsed, duration time.Duration) float64 {
	if duration <= 0 || elapsed < 0 || elapsed >= duration {
		return 0
	}
	return amount * (1 - elapsed.Seconds()/duration.Seconds())
}

// IOB computes instantaneous insulin on board from the event log. Bolus
// doses and the insulin component of meals decay linearly over the
// configured action duration; basal corrections and other doses are excluded.
func IOB(events []models.Event, now time.Time, actionDuration time.Duration) float64 {
	var total float64
	for i := range events {
		e := &events[i]
		switch e.Kind {
		case models.EventInsulin:
			if e.InsulinKind != models.InsulinBolus {
				continue
			}
			total += linearRemaining(e.Insulin, now.Sub(e.Timestamp), actionDuration)
		case models.EventMeal:
			total += linearRemaining(e.Insulin, now.Sub(e.Timestamp), actionDuration)
		case models.EventCarbs, models.EventGlucose:
			// no insulin contribution
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// COB computes instantaneous carbs on board from the event log. Carb events
// decay over their tagged absorption class; meal carbs are treated
// conservatively as slow-absorbing.
func COB(events []models.Event, now time.Time) float64 {
	var total float64
	for i := range events {
		e := &events[i]
		switch e.Kind {
		case models.EventCarbs:
			total += linearRemaining(e.Carbs, now.Sub(e.Timestamp), e.Absorption.Duration())
		case models.EventMeal:
			total += linearRemaining(e.Carbs, now.Sub(e.Timestamp), models.AbsorptionSlow.Duration())
		case models.EventInsulin, models.EventGlucose:
			// no carb contribution
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// TimeSinceLastBolus returns the time since the most recent bolus dose or
// meal. ok is false when no such event exists; callers report "unknown"
// rather than zero.
func TimeSinceLastBolus(events []models.Event, now time.Time) (time.Duration, bool) {
	var latest time.Time
	var found bool
	for i := range events {
		e := &events[i]
		if !e.IsBolus() {
			continue
		}
		if !found || e.Timestamp.After(latest) {
			latest = e.Timestamp
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return now.Sub(latest), true
}
