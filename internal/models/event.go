// Package models contains data structures used throughout the application
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventKind tags the variant of a logged Event.
type EventKind string

// Event kinds.
const (
	EventInsulin EventKind = "insulin"
	EventCarbs   EventKind = "carbs"
	EventMeal    EventKind = "meal"
	EventGlucose EventKind = "glucose"
)

// InsulinKind distinguishes what an insulin dose was for.
type InsulinKind string

// Insulin dose kinds. Only bolus doses count toward insulin on board.
const (
	InsulinBolus           InsulinKind = "bolus"
	InsulinBasalCorrection InsulinKind = "basal-correction"
	InsulinOther           InsulinKind = "other"
)

// AbsorptionClass classifies how quickly logged carbohydrates are absorbed.
type AbsorptionClass string

// Carbohydrate absorption classes.
const (
	AbsorptionFast   AbsorptionClass = "fast"
	AbsorptionMedium AbsorptionClass = "medium"
	AbsorptionSlow   AbsorptionClass = "slow"
)

// Duration returns the absorption duration for the class. Unknown classes
// absorb at the slow rate.
func (a AbsorptionClass) Duration() time.Duration {
	switch a {
	case AbsorptionFast:
		return 30 * time.Minute
	case AbsorptionMedium:
		return 90 * time.Minute
	default:
		return 180 * time.Minute
	}
}

// GlucoseSource identifies where a glucose reading came from.
type GlucoseSource string

// Glucose reading sources.
const (
	SourceManual  GlucoseSource = "manual"
	SourceMonitor GlucoseSource = "external-monitor"
)

// Glucose input bounds in mmol/L. Values outside this range are rejected at
// the boundary.
const (
	GlucoseMin = 1.0
	GlucoseMax = 30.0
)

// Event is one immutable record in the event log. Kind selects the variant;
// only the fields belonging to that variant are populated. Events are never
// mutated or deleted after creation.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// Insulin fields (EventInsulin, EventMeal)
	Insulin     float64     `json:"insulin,omitempty"` // units
	InsulinKind InsulinKind `json:"insulinKind,omitempty"`

	// Carb fields (EventCarbs, EventMeal)
	Carbs      float64         `json:"carbs,omitempty"` // grams
	Absorption AbsorptionClass `json:"absorption,omitempty"`

	// Meal fields
	Description string `json:"description,omitempty"`

	// Glucose fields (EventGlucose)
	Glucose float64       `json:"glucose,omitempty"` // mmol/L
	Source  GlucoseSource `json:"source,omitempty"`
}

// NewInsulinEvent validates and creates an insulin dose event.
func NewInsulinEvent(amount float64, kind InsulinKind, at time.Time) (Event, error) {
	if amount <= 0 {
		return Event{}, NewValidationError("insulin amount must be positive")
	}
	switch kind {
	case InsulinBolus, InsulinBasalCorrection, InsulinOther:
	default:
		return Event{}, NewValidationError(fmt.Sprintf("unknown insulin kind %q", kind))
	}
	return Event{
		ID:          uuid.New().String(),
		Kind:        EventInsulin,
		Timestamp:   at,
		Insulin:     amount,
		InsulinKind: kind,
	}, nil
}

// NewCarbEvent validates and creates a carbohydrate intake event.
func NewCarbEvent(grams float64, class AbsorptionClass, at time.Time) (Event, error) {
	if grams <= 0 {
		return Event{}, NewValidationError("carb amount must be positive")
	}
	switch class {
	case AbsorptionFast, AbsorptionMedium, AbsorptionSlow:
	default:
		return Event{}, NewValidationError(fmt.Sprintf("unknown absorption class %q", class))
	}
	return Event{
		ID:         uuid.New().String(),
		Kind:       EventCarbs,
		Timestamp:  at,
		Carbs:      grams,
		Absorption: class,
	}, nil
}

// NewMealEvent validates and creates a composite meal event. The insulin
// component counts as a bolus; the carb component always absorbs slowly.
func NewMealEvent(description string, carbs, insulin float64, at time.Time) (Event, error) {
	if carbs <= 0 {
		return Event{}, NewValidationError("meal carbs must be positive")
	}
	if insulin < 0 {
		return Event{}, NewValidationError("meal insulin must not be negative")
	}
	return Event{
		ID:          uuid.New().String(),
		Kind:        EventMeal,
		Timestamp:   at,
		Description: description,
		Carbs:       carbs,
		Absorption:  AbsorptionSlow,
		Insulin:     insulin,
		InsulinKind: InsulinBolus,
	}, nil
}

// NewGlucoseEvent validates and creates a glucose reading event.
func NewGlucoseEvent(value float64, source GlucoseSource, at time.Time) (Event, error) {
	if value < GlucoseMin || value > GlucoseMax {
		return Event{}, NewValidationError(fmt.Sprintf("glucose value must be between %.0f and %.0f mmol/L", GlucoseMin, GlucoseMax))
	}
	switch source {
	case SourceManual, SourceMonitor:
	default:
		return Event{}, NewValidationError(fmt.Sprintf("unknown glucose source %q", source))
	}
	return Event{
		ID:        uuid.New().String(),
		Kind:      EventGlucose,
		Timestamp: at,
		Glucose:   value,
		Source:    source,
	}, nil
}

// IsBolus reports whether the event carries bolus-type insulin. Meal insulin
// always counts as a bolus.
func (e *Event) IsBolus() bool {
	switch e.Kind {
	case EventInsulin:
		return e.InsulinKind == InsulinBolus && e.Insulin > 0
	case EventMeal:
		return e.Insulin > 0
	default:
		return false
	}
}

// HasCarbs reports whether the event contributes to carbs on board.
func (e *Event) HasCarbs() bool {
	return (e.Kind == EventCarbs || e.Kind == EventMeal) && e.Carbs > 0
}
