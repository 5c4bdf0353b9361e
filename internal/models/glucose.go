package models

import (
	"math"
	"time"
)

// Trend is the three-valued direction model derived from the external
// monitor's trend tokens.
type Trend string

// Trend values.
const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// monitorTrends maps the monitor's direction tokens onto the trend model.
// Tokens at forty-five degrees or steeper map to rising/falling.
var monitorTrends = map[string]Trend{
	"DoubleUp":      TrendRising,
	"SingleUp":      TrendRising,
	"FortyFiveUp":   TrendRising,
	"Flat":          TrendStable,
	"FortyFiveDown": TrendFalling,
	"SingleDown":    TrendFalling,
	"DoubleDown":    TrendFalling,
}

// MapTrend converts a monitor direction token to a Trend. ok is false for
// tokens without an explicit mapping (e.g. "NOT COMPUTABLE"); callers keep
// the previously known trend in that case.
func MapTrend(direction string) (Trend, bool) {
	trend, ok := monitorTrends[direction]
	return trend, ok
}

// MgdlToMmol converts a sensor glucose value in mg/dL to mmol/L, rounded to
// one decimal.
func MgdlToMmol(mgdl int) float64 {
	return math.Round(float64(mgdl)/18.0*10) / 10
}

// GlucoseHistoryPoint is one point of the bulk-ingested monitor series used
// by the pattern analyzer.
type GlucoseHistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"` // mmol/L
}
