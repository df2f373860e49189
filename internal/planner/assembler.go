// ABOUTME: Assembles full-day meal plans from a meal catalog and a macro target.
// ABOUTME: Also regenerates a single meal in place and builds the shopping list.
package planner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/models"
)

// LowAccuracyThreshold is the plan accuracy below which a warning is added.
const LowAccuracyThreshold = 85

const (
	msgNotAuthenticated = "User not authenticated"
	msgMissingTarget    = "Target macros are required"
	msgLowAccuracy      = "Macro accuracy is lower than ideal"
)

// ShoppingListBuilder turns a plan into a shopping list.
type ShoppingListBuilder interface {
	Build(plan *models.MealPlan) *models.ShoppingList
}

// Request describes a plan to generate. A nil Distribution uses the default.
type Request struct {
	UserID       string                   `json:"user_id"`
	TargetMacros models.MacroGoals        `json:"target_macros"`
	Distribution *models.MealDistribution `json:"distribution,omitempty"`
}

// GenerationResult is the outcome of Generate. Failures are reported here
// rather than as errors so callers can show them and offer a retry.
type GenerationResult struct {
	Success      bool                 `json:"success"`
	MealPlan     *models.MealPlan     `json:"meal_plan,omitempty"`
	ShoppingList *models.ShoppingList `json:"shopping_list,omitempty"`
	Accuracy     int                  `json:"accuracy"`
	Warnings     []string             `json:"warnings,omitempty"`
	Errors       []string             `json:"errors,omitempty"`
}

// Assembler selects meals from a loaded catalog.
type Assembler struct {
	meals    []models.GeneratedMeal
	shopping ShoppingListBuilder
	logger   *zap.Logger
}

// New creates an Assembler. shopping and logger may be nil.
func New(meals []models.GeneratedMeal, shopping ShoppingListBuilder, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{meals: meals, shopping: shopping, logger: logger}
}

// Meals returns the catalog the assembler draws from.
func (a *Assembler) Meals() []models.GeneratedMeal {
	return a.meals
}

func (a *Assembler) byCategory(c models.MealCategory, excludeID string) []models.GeneratedMeal {
	var out []models.GeneratedMeal
	for _, m := range a.meals {
		if m.Category == c && m.ID != excludeID {
			out = append(out, m)
		}
	}
	return out
}

// Generate builds a full-day plan for the request.
func (a *Assembler) Generate(req Request) GenerationResult {
	if req.UserID == "" {
		return GenerationResult{Success: false, Errors: []string{msgNotAuthenticated}, Accuracy: 0}
	}
	if req.TargetMacros.IsZero() {
		return GenerationResult{Success: false, Errors: []string{msgMissingTarget}, Accuracy: 0}
	}

	dist := models.DefaultDistribution()
	if req.Distribution != nil && !req.Distribution.IsZero() {
		dist = *req.Distribution
	}

	var (
		selected []models.GeneratedMeal
		warnings []string
	)
	for _, category := range models.AllMealCategories {
		percent := dist.Percent(category)
		if category == models.CategorySnack && percent <= 0 {
			continue
		}

		sub := PartialMacros(req.TargetMacros, percent/100)
		best := SelectBestMeals(a.byCategory(category, ""), sub, 1)
		if len(best) == 0 {
			a.logger.Warn("no candidates for category", zap.String("category", string(category)))
			// Snacks are optional filler; only missing main meals warrant a warning.
			if category != models.CategorySnack {
				warnings = append(warnings, fmt.Sprintf("No %s meals available", category))
			}
			continue
		}

		a.logger.Debug("selected meal",
			zap.String("category", string(category)),
			zap.String("meal", best[0].Name),
			zap.Int("score", CalculateMacroAccuracy(sub, best[0].Macros)),
		)
		selected = append(selected, best...)
	}

	plan := models.NewMealPlan(req.UserID, req.TargetMacros, dist)
	plan.SetMeals(selected, CalculateMacroAccuracy)
	snap := plan.Snapshot()

	if snap.MacroAccuracy < LowAccuracyThreshold {
		warnings = append(warnings, msgLowAccuracy)
	}

	result := GenerationResult{
		Success:  true,
		MealPlan: plan,
		Accuracy: snap.MacroAccuracy,
		Warnings: warnings,
	}
	if a.shopping != nil {
		result.ShoppingList = a.shopping.Build(plan)
	}

	a.logger.Info("generated meal plan",
		zap.String("plan_id", snap.ID),
		zap.Int("meals", len(snap.Meals)),
		zap.Int("accuracy", snap.MacroAccuracy),
	)
	return result
}

// RegenerateMeal swaps the meal with mealID for the best other meal in the
// same category. The swap and the recomputed totals land in one locked
// update. Returns false when the meal or an alternative is missing.
func (a *Assembler) RegenerateMeal(plan *models.MealPlan, mealID string) (bool, error) {
	if plan == nil {
		return false, errors.New("regenerate meal: nil plan")
	}

	snap := plan.Snapshot()
	idx := snap.MealIndex(mealID)
	if idx < 0 {
		return false, nil
	}
	current := snap.Meals[idx]

	dist := snap.Distribution
	if dist.IsZero() {
		dist = models.DefaultDistribution()
	}
	sub := PartialMacros(snap.TargetMacros, dist.Percent(current.Category)/100)

	best := SelectBestMeals(a.byCategory(current.Category, mealID), sub, 1)
	if len(best) == 0 {
		return false, nil
	}

	if !plan.SwapMeal(mealID, best[0], CalculateMacroAccuracy) {
		return false, nil
	}

	a.logger.Debug("regenerated meal",
		zap.String("plan_id", snap.ID),
		zap.String("old", current.Name),
		zap.String("new", best[0].Name),
	)
	return true, nil
}

// ShoppingList builds the shopping list for a plan, or nil when no builder
// is configured.
func (a *Assembler) ShoppingList(plan *models.MealPlan) *models.ShoppingList {
	if a.shopping == nil {
		return nil
	}
	return a.shopping.Build(plan)
}
