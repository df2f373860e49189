// ABOUTME: Macro accuracy scoring and best-meal selection.
// ABOUTME: Accuracy is a weighted closeness score from 0 to 100.
package planner

import (
	"math"
	"sort"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
)

// Accuracy weights. Calories matter most.
const (
	weightKcal    = 0.40
	weightProtein = 0.25
	weightCarbs   = 0.20
	weightFat     = 0.15

	// fallbackAccuracy is reported when the score cannot be computed.
	fallbackAccuracy = 85
)

// CalculateMacroAccuracy scores how closely actual matches target.
// Each target is floored at 1 so a zero target never divides by zero.
func CalculateMacroAccuracy(target, actual models.MacroGoals) int {
	closeness := func(t, a float64) float64 {
		t = math.Max(1, t)
		return 1 - math.Abs(t-a)/t
	}

	weighted := closeness(target.Kcal, actual.Kcal)*weightKcal +
		closeness(target.ProteinG, actual.ProteinG)*weightProtein +
		closeness(target.CarbsG, actual.CarbsG)*weightCarbs +
		closeness(target.FatG, actual.FatG)*weightFat

	score := nutrition.Round(weighted * 100)
	if math.IsNaN(score) {
		return fallbackAccuracy
	}
	return int(math.Max(0, math.Min(100, score)))
}

// PartialMacros scales a target by a fraction, rounding each macro.
func PartialMacros(total models.MacroGoals, fraction float64) models.MacroGoals {
	return models.MacroGoals{
		Kcal:     nutrition.Round(total.Kcal * fraction),
		ProteinG: nutrition.Round(total.ProteinG * fraction),
		CarbsG:   nutrition.Round(total.CarbsG * fraction),
		FatG:     nutrition.Round(total.FatG * fraction),
	}
}

type scoredMeal struct {
	meal  models.GeneratedMeal
	score int
}

// SelectBestMeals returns up to count candidates ordered by accuracy against
// target. Candidates with equal scores keep their input order.
func SelectBestMeals(candidates []models.GeneratedMeal, target models.MacroGoals, count int) []models.GeneratedMeal {
	if len(candidates) == 0 || count <= 0 {
		return []models.GeneratedMeal{}
	}

	scored := make([]scoredMeal, len(candidates))
	for i, meal := range candidates {
		scored[i] = scoredMeal{meal: meal, score: CalculateMacroAccuracy(target, meal.Macros)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if count > len(scored) {
		count = len(scored)
	}
	out := make([]models.GeneratedMeal, count)
	for i := 0; i < count; i++ {
		out[i] = scored[i].meal
	}
	return out
}
