package engine

import (
	"math"

	"github.com/mrcode/diabefit/internal/models"
)

// CarbNeed estimates the grams of carbohydrate to take before or during a
// workout of the given duration and intensity. The estimate covers the gap
// to the target glucose, fuel burned during the session, and active insulin,
// minus carbs already on board. The result is floored at zero and rounded to
// the nearest 5 grams.
//
// A ValidationError is returned when no glucose value is available.
func CarbNeed(glucose *float64, durationMinutes int, intensity models.Intensity, settings models.Settings, cob, iob float64) (int, error) {
	if glucose == nil {
		return 0, models.NewValidationError("no glucose value available; measure or enter one first")
	}
	if durationMinutes <= 0 {
		return 0, models.NewValidationError("workout duration must be positive")
	}
	perHour, ok := intensity.CarbsPerHour()
	if !ok {
		return 0, models.NewValidationError("intensity must be low, medium or high")
	}

	var fromGlucose float64
	if *glucose < settings.TargetGlucose {
		fromGlucose = (settings.TargetGlucose - *glucose) * 10
	}
	fromExercise := float64(durationMinutes) / 60 * float64(perHour)
	fromInsulin := iob * settings.CorrectionFactor * 10

	need := fromGlucose + fromExercise - cob + fromInsulin
	if need < 0 {
		need = 0
	}
	return int(math.Round(need/5) * 5), nil
}
