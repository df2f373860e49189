// ABOUTME: Runs the full target calculation chain for a completed onboarding draft.
// ABOUTME: Stats -> BMR -> TDEE -> body fat -> calorie target -> macros -> timeline.
package onboarding

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
)

// ErrIncomplete is returned when the draft lacks answers Compute needs.
var ErrIncomplete = errors.New("onboarding incomplete")

// Targets is everything derived from a draft. AlternativeSplit re-splits
// the same calories by fixed goal percentages, rounded to 5 g.
type Targets struct {
	Metric           nutrition.Metric           `json:"metric"`
	BMR              int                        `json:"bmr"`
	TDEE             int                        `json:"tdee"`
	BodyFatPercent   float64                    `json:"body_fat_percent"`
	LeanBodyMassKg   float64                    `json:"lean_body_mass_kg"`
	CalorieTarget    int                        `json:"calorie_target"`
	Macros           models.MacroGoals          `json:"macros"`
	Timeline         *nutrition.Timeline        `json:"timeline,omitempty"`
	Pace             nutrition.PaceValidation   `json:"pace"`
	Percentages      nutrition.MacroPercentages `json:"percentages"`
	FiberG           int                        `json:"fiber_g"`
	WaterMl          int                        `json:"water_ml"`
	Goal             models.GoalType            `json:"goal"`
	TargetWeightKg   float64                    `json:"target_weight_kg,omitempty"`
	AgeYears         int                        `json:"age_years,omitempty"`
	Gender           models.Gender              `json:"gender,omitempty"`
	Activity         models.ActivityLevel       `json:"activity,omitempty"`
	AlternativeSplit models.MacroGoals          `json:"alternative_split"`
	AlternativeShare nutrition.MacroPercentages `json:"alternative_share"`
	ComputedAt       time.Time                  `json:"computed_at"`
}

// Compute derives targets from the draft's answers.
func Compute(d *Draft, now time.Time) (*Targets, error) {
	p := d.Physical
	if p.AgeYears <= 0 || p.Height.Value <= 0 || p.Weight.Value <= 0 || !p.Gender.IsValid() {
		return nil, fmt.Errorf("%w: age, height, weight and gender are required", ErrIncomplete)
	}
	if !d.Goal.IsValid() {
		return nil, fmt.Errorf("%w: goal is required", ErrIncomplete)
	}

	m := nutrition.ConvertToMetric(p)
	bmr := nutrition.CalculateBMR(m.WeightKg, m.HeightCm, p.AgeYears, p.Gender)

	tdee, err := nutrition.CalculateTDEE(bmr, d.Activity)
	if err != nil {
		return nil, fmt.Errorf("compute tdee: %w", err)
	}

	bodyFat, err := nutrition.EstimateBodyFat(d.BodyFat, m, p.Gender)
	if err != nil {
		return nil, fmt.Errorf("estimate body fat: %w", err)
	}
	if v := ValidateStep(StepBodyFat, d); !v.Valid {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, v.Message)
	}

	var lbm *float64
	t := &Targets{
		Metric:         m,
		BMR:            bmr,
		TDEE:           tdee,
		BodyFatPercent: bodyFat,
		Goal:           d.Goal,
		TargetWeightKg: d.Plan.TargetWeightKg,
		AgeYears:       p.AgeYears,
		Gender:         p.Gender,
		Activity:       d.Activity,
		ComputedAt:     now,
	}
	if bodyFat > 0 {
		t.LeanBodyMassKg = nutrition.CalculateLeanBodyMass(m.WeightKg, bodyFat)
		lbm = &t.LeanBodyMassKg
	}

	pace := d.Plan.PaceKgPerWeek
	if d.Goal == models.GoalMaintain {
		pace = 0
	}
	t.CalorieTarget = nutrition.CalculateCalorieTarget(tdee, d.Goal, pace, p.Gender)
	t.Macros = nutrition.CalculateMacros(t.CalorieTarget, d.Goal, m.WeightKg, lbm)
	t.Pace = nutrition.ValidateSafePace(pace, d.Goal)
	t.Percentages = nutrition.CalculateMacroPercentages(t.Macros)
	t.AlternativeSplit = nutrition.RoundMacros(nutrition.SuggestMacroAdjustments(t.Macros, d.Goal))
	t.AlternativeShare = nutrition.CalculateMacroPercentages(t.AlternativeSplit)
	t.FiberG = nutrition.CalculateFiberRecommendation(t.Macros.Kcal)
	t.WaterMl = nutrition.CalculateWaterRecommendation(m.WeightKg)

	if d.Plan.TargetWeightKg > 0 && pace > 0 {
		tl := nutrition.EstimateTimeline(m.WeightKg, d.Plan.TargetWeightKg, pace, now)
		t.Timeline = &tl
	}

	return t, nil
}
