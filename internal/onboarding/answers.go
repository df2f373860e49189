// ABOUTME: Builds a complete draft from one-shot answers, as given by CLI flags or tool calls.
// ABOUTME: Fields left empty keep the draft defaults.
package onboarding

import (
	"fmt"
	"math"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
)

// Answers are all onboarding questions answered at once.
type Answers struct {
	Age           int      `json:"age"`
	Height        float64  `json:"height"`
	HeightUnit    string   `json:"height_unit,omitempty"`
	Weight        float64  `json:"weight"`
	WeightUnit    string   `json:"weight_unit,omitempty"`
	Gender        string   `json:"gender"`
	Activity      string   `json:"activity"`
	Goal          string   `json:"goal"`
	PaceKg        float64  `json:"pace,omitempty"`
	TargetWeight  float64  `json:"target_weight,omitempty"`
	TimelineWeeks int      `json:"timeline_weeks,omitempty"`
	BodyFatMethod string   `json:"bodyfat_method,omitempty"`
	BodyFat       *float64 `json:"bodyfat,omitempty"`
	Visual        *int     `json:"visual,omitempty"`
	Waist         *float64 `json:"waist,omitempty"`
	Neck          *float64 `json:"neck,omitempty"`
	Hip           *float64 `json:"hip,omitempty"`
}

// DraftFromAnswers validates the answers and returns a draft on the summary
// step. The body fat method is inferred from what was given when not set.
// Without a pace, a target weight plus TimelineWeeks sets the pace.
func DraftFromAnswers(a Answers) (*Draft, error) {
	d := NewDraft()
	d.Physical.AgeYears = a.Age
	d.Physical.Height.Value = a.Height
	d.Physical.Weight.Value = a.Weight

	if a.HeightUnit != "" {
		if err := ApplyField(d, "height_unit", a.HeightUnit); err != nil {
			return nil, err
		}
	}
	if a.WeightUnit != "" {
		if err := ApplyField(d, "weight_unit", a.WeightUnit); err != nil {
			return nil, err
		}
	}
	if err := ApplyField(d, "gender", a.Gender); err != nil {
		return nil, err
	}
	if err := ApplyField(d, "activity", a.Activity); err != nil {
		return nil, err
	}

	if v := ValidateStep(StepPhysical, d); !v.Valid {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, v.Message)
	}

	d.BodyFat = models.BodyFatInput{
		Method:      inferBodyFatMethod(a),
		Percent:     a.BodyFat,
		VisualIndex: a.Visual,
	}
	if a.Waist != nil || a.Neck != nil || a.Hip != nil {
		d.BodyFat.Measurements = &models.TapeMeasurements{Waist: a.Waist, Neck: a.Neck, Hip: a.Hip}
	}
	if !d.BodyFat.Method.IsValid() {
		return nil, fmt.Errorf("invalid body fat method %q", a.BodyFatMethod)
	}
	if v := ValidateStep(StepBodyFat, d); !v.Valid {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, v.Message)
	}

	d.Plan.TargetWeightKg = a.TargetWeight
	d.Plan.PaceKgPerWeek = a.PaceKg
	if err := ApplyField(d, "goal", a.Goal); err != nil {
		return nil, err
	}

	if a.TargetWeight > 0 {
		m := nutrition.ConvertToMetric(d.Physical)
		if !nutrition.ValidateTargetWeightDirection(m.WeightKg, a.TargetWeight, d.Goal) {
			return nil, fmt.Errorf("target weight %.1f kg does not fit goal %s from %.1f kg", a.TargetWeight, d.Goal, m.WeightKg)
		}
		if a.PaceKg == 0 && a.TimelineWeeks > 0 && d.Goal != models.GoalMaintain {
			rate := nutrition.CalculateWeightChangeRate(m.WeightKg, a.TargetWeight, a.TimelineWeeks)
			if !nutrition.IsHealthyWeightChangeRate(rate) {
				return nil, fmt.Errorf("%w: reaching %.1f kg in %d weeks needs %.2f kg per week, more than 1 kg",
					ErrIncomplete, a.TargetWeight, a.TimelineWeeks, math.Abs(rate))
			}
			d.Plan.PaceKgPerWeek = math.Abs(rate)
			d.Plan.EstimatedWeeks = a.TimelineWeeks
		}
	}

	d.CurrentStep = StepSummary
	return d, nil
}

func inferBodyFatMethod(a Answers) models.BodyFatMethod {
	if a.BodyFatMethod != "" {
		return models.BodyFatMethod(a.BodyFatMethod)
	}
	switch {
	case a.BodyFat != nil:
		return models.BodyFatKnown
	case a.Waist != nil && a.Neck != nil:
		return models.BodyFatTape
	case a.Visual != nil:
		return models.BodyFatVisual
	}
	return models.BodyFatUnknown
}
