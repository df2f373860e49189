// ABOUTME: Daily fiber/water recommendations and macro diagnostics.
// ABOUTME: Includes macro range validation, calorie percentages and goal-based splits.
package nutrition

import (
	"math"

	"github.com/harperreed/mealplan/internal/models"
)

// MacroValidation lists every problem found in a macro set.
type MacroValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// MacroPercentages is the share of calories from each macro, in percent.
type MacroPercentages struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// CalculateFiberRecommendation returns grams of fiber per day (14 g per 1000 kcal).
func CalculateFiberRecommendation(kcal float64) int {
	return int(Round(kcal / 1000 * 14))
}

// CalculateWaterRecommendation returns millilitres of water per day.
func CalculateWaterRecommendation(weightKg float64) int {
	return int(Round(weightKg * 35))
}

// ValidateMacros checks a macro set against sane ranges and checks that the
// grams add up to the calories within 15%.
func ValidateMacros(m models.MacroGoals) MacroValidation {
	var errs []string

	if m.Kcal <= 0 || m.Kcal > 5000 {
		errs = append(errs, "Calories must be between 1 and 5000")
	}
	if m.ProteinG <= 0 || m.ProteinG > 300 {
		errs = append(errs, "Protein must be between 1 and 300 grams")
	}
	if m.CarbsG < 0 || m.CarbsG > 500 {
		errs = append(errs, "Carbs must be between 0 and 500 grams")
	}
	if m.FatG <= 0 || m.FatG > 200 {
		errs = append(errs, "Fat must be between 1 and 200 grams")
	}
	if math.Abs(m.Kcal-m.MacroKcal()) > m.Kcal*0.15 {
		errs = append(errs, "Macro distribution does not match total calories")
	}

	return MacroValidation{Valid: len(errs) == 0, Errors: errs}
}

// CalculateMacroPercentages returns the percent of kcal each macro supplies.
// A zero kcal set yields zeros.
func CalculateMacroPercentages(m models.MacroGoals) MacroPercentages {
	if m.Kcal == 0 {
		return MacroPercentages{}
	}
	return MacroPercentages{
		Protein: int(Round(m.ProteinG * 4 / m.Kcal * 100)),
		Carbs:   int(Round(m.CarbsG * 4 / m.Kcal * 100)),
		Fat:     int(Round(m.FatG * 9 / m.Kcal * 100)),
	}
}

// SuggestMacroAdjustments re-splits the calories for a goal. Cutting never
// lowers protein below the current value.
func SuggestMacroAdjustments(m models.MacroGoals, goal models.GoalType) models.MacroGoals {
	out := m
	switch goal {
	case models.GoalCut:
		out.ProteinG = math.Max(m.ProteinG, Round(m.Kcal*0.35/4))
		out.CarbsG = Round(m.Kcal * 0.35 / 4)
		out.FatG = Round(m.Kcal * 0.30 / 9)
	case models.GoalBulk:
		out.ProteinG = Round(m.Kcal * 0.25 / 4)
		out.CarbsG = Round(m.Kcal * 0.45 / 4)
		out.FatG = Round(m.Kcal * 0.30 / 9)
	case models.GoalMaintain:
		out.ProteinG = Round(m.Kcal * 0.30 / 4)
		out.CarbsG = Round(m.Kcal * 0.40 / 4)
		out.FatG = Round(m.Kcal * 0.30 / 9)
	}
	return out
}
