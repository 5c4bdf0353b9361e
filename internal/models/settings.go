package models

// Settings contains the therapy parameters read by every computation. It is
// persisted as part of the state snapshot and mutated only through the
// store's update operation.
type Settings struct {
	TargetGlucose      float64 `json:"targetGlucose"`      // mmol/L, exercise target
	InsulinActionHours float64 `json:"insulinActionHours"` // duration of insulin action
	CorrectionFactor   float64 `json:"correctionFactor"`   // mmol/L drop per unit
	CarbRatio          float64 `json:"carbRatio"`          // grams per unit
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		TargetGlucose:      7.5,
		InsulinActionHours: 4.0,
		CorrectionFactor:   2.5,
		CarbRatio:          10.0,
	}
}

// Validate rejects settings no computation could work with.
func (s Settings) Validate() error {
	if s.TargetGlucose < GlucoseMin || s.TargetGlucose > GlucoseMax {
		return NewValidationError("target glucose out of range")
	}
	if s.InsulinActionHours <= 0 {
		return NewValidationError("insulin action duration must be positive")
	}
	if s.CorrectionFactor <= 0 {
		return NewValidationError("correction factor must be positive")
	}
	if s.CarbRatio <= 0 {
		return NewValidationError("carb ratio must be positive")
	}
	return nil
}
