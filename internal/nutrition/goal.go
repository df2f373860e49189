// ABOUTME: Calorie target and macro split calculations for a weight goal.
// ABOUTME: Carbs alone absorb rounding error so protein and fat stay as computed.
package nutrition

import (
	"math"

	"github.com/harperreed/mealplan/internal/models"
)

const (
	minKcalMale   = 1500
	minKcalFemale = 1200

	// maxSurplus caps the target at this multiple of TDEE.
	maxSurplus = 1.2

	macroRoundingStep  = 5
	macroKcalTolerance = 0.015
)

// CalculateCalorieTarget returns a daily calorie target for a goal and pace.
// The result is clamped to a safe range instead of being rejected.
func CalculateCalorieTarget(tdee int, goal models.GoalType, paceKgPerWeek float64, gender models.Gender) int {
	adjustment := 0.0
	if goal != models.GoalMaintain {
		adjustment = paceKgPerWeek * kcalPerKgFat / 7
		if goal == models.GoalCut {
			adjustment = -adjustment
		}
	}

	target := float64(tdee) + adjustment

	floor := float64(minKcalMale)
	if gender == models.GenderFemale {
		floor = minKcalFemale
	}
	ceiling := float64(tdee) * maxSurplus

	return int(Round(math.Max(floor, math.Min(ceiling, target))))
}

// CalculateMacros splits a calorie target into protein, carbs and fat grams,
// each rounded to the nearest 5 g. leanBodyMassKg may be nil.
func CalculateMacros(calorieTarget int, goal models.GoalType, weightKg float64, leanBodyMassKg *float64) models.MacroGoals {
	kcal := float64(calorieTarget)

	protein := weightKg * 2.0
	if goal == models.GoalCut && leanBodyMassKg != nil && *leanBodyMassKg > 0 {
		protein = *leanBodyMassKg * 2.4
	}

	fat := math.Max(weightKg*0.8, kcal*0.2/9)
	carbs := math.Max(0, (kcal-protein*4-fat*9)/4)

	out := models.MacroGoals{
		Kcal:     kcal,
		ProteinG: roundToStep(protein),
		CarbsG:   roundToStep(carbs),
		FatG:     roundToStep(fat),
	}

	if math.Abs(out.MacroKcal()-kcal) > kcal*macroKcalTolerance {
		out.CarbsG = math.Max(0, roundToStep((kcal-out.ProteinG*4-out.FatG*9)/4))
	}

	return out
}

// RoundMacros rounds protein and fat to 5 g and refills carbs from the
// calories left over.
func RoundMacros(m models.MacroGoals) models.MacroGoals {
	protein := roundToStep(m.ProteinG)
	fat := roundToStep(m.FatG)
	carbs := math.Max(0, (m.Kcal-protein*4-fat*9)/4)

	return models.MacroGoals{
		Kcal:     m.Kcal,
		ProteinG: protein,
		CarbsG:   roundToStep(carbs),
		FatG:     fat,
	}
}

func roundToStep(g float64) float64 {
	return Round(g/macroRoundingStep) * macroRoundingStep
}
