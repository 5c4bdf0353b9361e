package models

// Intensity grades a workout's effort for the carbohydrate-need estimate.
type Intensity string

// Workout intensities.
const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// CarbsPerHour returns the estimated grams of carbohydrate burned per hour
// at this intensity. ok is false for unknown intensities.
func (i Intensity) CarbsPerHour() (int, bool) {
	switch i {
	case IntensityLow:
		return 20, true
	case IntensityMedium:
		return 40, true
	case IntensityHigh:
		return 60, true
	default:
		return 0, false
	}
}

// Workout types in the weekly schedule.
const (
	WorkoutRest     = "rest"
	WorkoutCycling  = "cycling"
	WorkoutStrength = "strength"
)

// Exercise is one movement in a strength session.
type Exercise struct {
	Name string `json:"name"`
	Reps string `json:"reps"`
}

// DaySchedule is the fixed plan for one weekday.
type DaySchedule struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Duration    int        `json:"durationMinutes"`
	Intensity   Intensity  `json:"intensity,omitempty"`
	Zone        string     `json:"zone,omitempty"`
	Exercises   []Exercise `json:"exercises,omitempty"`
}

// IsRest reports whether the day has no training planned.
func (d DaySchedule) IsRest() bool {
	return d.Type == WorkoutRest
}

var strengthCircuit = []Exercise{
	{Name: "Squats", Reps: "15x"},
	{Name: "Push-ups", Reps: "10-15x"},
	{Name: "Lunges", Reps: "10x per leg"},
	{Name: "Plank", Reps: "30-45 sec"},
	{Name: "Glute bridges", Reps: "15x"},
	{Name: "Superman (back)", Reps: "12x"},
}

// WeeklySchedule is the fixed training week, indexed by time.Weekday
// (0 = Sunday).
var WeeklySchedule = [7]DaySchedule{
	{
		Type:        WorkoutRest,
		Title:       "Rest day",
		Description: "No training planned today. Enjoy the day off and recover well.",
	},
	{
		Type:        WorkoutCycling,
		Title:       "Zone 2 recovery ride",
		Description: "Easy endurance ride in zone 2. Keep a relaxed pace where you can still hold a conversation.",
		Duration:    45,
		Intensity:   IntensityLow,
		Zone:        "Zone 2 (60-70% max HR)",
	},
	{
		Type:        WorkoutStrength,
		Title:       "Strength training",
		Description: "Full-body circuit. Focus on good technique and controlled movement. 3 rounds with 60 seconds rest between rounds.",
		Duration:    30,
		Intensity:   IntensityMedium,
		Exercises:   strengthCircuit,
	},
	{
		Type:        WorkoutCycling,
		Title:       "Interval training",
		Description: "4x4 minutes at 85-90% of max heart rate with 3 minutes active recovery.",
		Duration:    50,
		Intensity:   IntensityHigh,
		Zone:        "Zone 4-5 (85-90% max HR)",
	},
	{
		Type:        WorkoutStrength,
		Title:       "Strength training",
		Description: "Full-body circuit. Focus on good technique and controlled movement. 3 rounds with 60 seconds rest between rounds.",
		Duration:    30,
		Intensity:   IntensityMedium,
		Exercises:   strengthCircuit,
	},
	{
		Type:        WorkoutRest,
		Title:       "Rest or mobility",
		Description: "Optional: 15 minutes of light stretching or yoga. Listen to your body.",
		Duration:    15,
	},
	{
		Type:        WorkoutCycling,
		Title:       "Long endurance ride",
		Description: "Longer ride at a moderate pace with some climbing. Bring enough carbohydrates!",
		Duration:    75,
		Intensity:   IntensityMedium,
		Zone:        "Zone 2-3 (65-80% max HR)",
	},
}

// TrainingForDay resolves the schedule for a weekday, honoring the
// rescheduled-trainings map (original day -> target day). A day whose
// training moved elsewhere becomes a rest day.
func TrainingForDay(day int, rescheduled map[int]int) DaySchedule {
	for original, target := range rescheduled {
		if target == day {
			return WeeklySchedule[original]
		}
	}
	if _, moved := rescheduled[day]; moved {
		return WeeklySchedule[0]
	}
	return WeeklySchedule[day]
}
