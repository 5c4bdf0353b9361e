package engine

import (
	"github.com/mrcode/diabefit/internal/models"
)

// Tier is the qualitative readiness classification.
type Tier string

// Readiness tiers.
const (
	TierDanger  Tier = "danger"
	TierWarning Tier = "warning"
	TierSuccess Tier = "success"
)

// Score is the outcome of a readiness evaluation.
type Score struct {
	Value    int    `json:"score"` // 0-100
	Tier     Tier   `json:"tier"`
	Advisory string `json:"advisory"`
}

// Readiness combines the current glucose reading, the exercise target, and
// insulin on board into a safety score for starting a workout now. A nil
// glucose means no reading is available yet.
//
// One glucose band applies (first match), the IOB deduction stacks on top of
// it, and glucose below 4.0 mmol/L is a hard stop that nothing can raise.
func Readiness(glucose *float64, settings models.Settings, iob float64) Score {
	score := 100.0
	advisory := ""
	hardStop := false

	switch {
	case glucose == nil:
		score -= 30
		advisory = "No recent glucose reading. Measure your blood sugar before training."
	case *glucose < 4.0:
		hardStop = true
		advisory = "Glucose is below 4.0 mmol/L. Do not exercise. Take 15-20 g of fast carbs and recheck in 15 minutes."
	case *glucose < 5.0:
		score -= 50
		advisory = "Glucose is too low for training. Take 15-20 g of fast carbs and recheck before starting."
	case *glucose < 6.5:
		score -= 25
		advisory = "Glucose is on the low side. Take a small snack (10-15 g carbs) to get closer to target and avoid a hypo."
	case *glucose > 14.0:
		score -= 40
		advisory = "Glucose is very high. Check ketones first; do not train with elevated ketones."
	case *glucose > 10.0:
		score -= 15
	}

	switch {
	case iob > 1.5:
		score -= 30
		if advisory == "" {
			advisory = "A lot of insulin is still active. Training now raises the risk of a hypo; consider waiting or eating extra carbs."
		}
	case iob > 0.5:
		score -= 15
	}

	if glucose != nil && *glucose >= 6.5 && *glucose <= 8.5 && iob < 0.5 {
		score += 10
		if score > 100 {
			score = 100
		}
	}

	if score < 0 || hardStop {
		score = 0
	}

	tier := TierDanger
	switch {
	case score >= 80:
		tier = TierSuccess
	case score >= 50:
		tier = TierWarning
	}

	if advisory == "" && tier == TierSuccess {
		advisory = "Glucose is near target and insulin on board is low. Safe to train; keep glucose tablets at hand."
	}

	return Score{Value: int(score), Tier: tier, Advisory: advisory}
}
