// ABOUTME: Meal, ingredient, distribution, and meal plan models.
// ABOUTME: MealPlan guards meal swaps so totals and accuracy change in one step.
package models

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MealCategory is the slot a meal fills in a day.
type MealCategory string

const (
	CategoryBreakfast MealCategory = "breakfast"
	CategoryLunch     MealCategory = "lunch"
	CategoryDinner    MealCategory = "dinner"
	CategorySnack     MealCategory = "snack"
)

// AllMealCategories lists categories in the order they are planned.
var AllMealCategories = []MealCategory{
	CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack,
}

// IsValidMealCategory checks if a string is a valid meal category.
func IsValidMealCategory(s string) bool {
	for _, c := range AllMealCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// MealIngredient is one line of a recipe.
type MealIngredient struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Unit      string  `json:"unit" yaml:"unit"`
	Category  string  `json:"category" yaml:"category"`
	Essential bool    `json:"essential" yaml:"essential"`
}

// GeneratedMeal is a recipe from the meal catalog with its macros.
type GeneratedMeal struct {
	ID           string           `json:"id" yaml:"id"`
	Name         string           `json:"name" yaml:"name"`
	Category     MealCategory     `json:"category" yaml:"category"`
	Ingredients  []MealIngredient `json:"ingredients" yaml:"ingredients"`
	Instructions []string         `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Macros       MacroGoals       `json:"macros" yaml:"macros"`
	ServingSize  float64          `json:"serving_size" yaml:"serving_size"`
}

// Clone returns a copy that shares no slices with m.
func (m GeneratedMeal) Clone() GeneratedMeal {
	if m.Ingredients != nil {
		m.Ingredients = append([]MealIngredient(nil), m.Ingredients...)
	}
	if m.Instructions != nil {
		m.Instructions = append([]string(nil), m.Instructions...)
	}
	return m
}

// MealDistribution splits the daily target across meal types, in percent.
type MealDistribution struct {
	Breakfast float64 `json:"breakfast" yaml:"breakfast"`
	Lunch     float64 `json:"lunch" yaml:"lunch"`
	Dinner    float64 `json:"dinner" yaml:"dinner"`
	Snacks    float64 `json:"snacks" yaml:"snacks"`
}

// DefaultDistribution returns the standard 25/35/35/5 split.
func DefaultDistribution() MealDistribution {
	return MealDistribution{Breakfast: 25, Lunch: 35, Dinner: 35, Snacks: 5}
}

// Percent returns the share for a meal category.
func (d MealDistribution) Percent(c MealCategory) float64 {
	switch c {
	case CategoryBreakfast:
		return d.Breakfast
	case CategoryLunch:
		return d.Lunch
	case CategoryDinner:
		return d.Dinner
	case CategorySnack:
		return d.Snacks
	}
	return 0
}

// IsZero reports whether no share is set.
func (d MealDistribution) IsZero() bool {
	return d.Breakfast == 0 && d.Lunch == 0 && d.Dinner == 0 && d.Snacks == 0
}

// PlanStatus is the lifecycle state of a meal plan.
type PlanStatus string

const (
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)

// MealPlan is a full day of meals selected for a target.
type MealPlan struct {
	ID            string           `json:"id" yaml:"id"`
	UserID        string           `json:"user_id" yaml:"user_id"`
	TargetMacros  MacroGoals       `json:"target_macros" yaml:"target_macros"`
	Distribution  MealDistribution `json:"distribution" yaml:"distribution"`
	Meals         []GeneratedMeal  `json:"meals" yaml:"meals"`
	TotalMacros   MacroGoals       `json:"total_macros" yaml:"total_macros"`
	MacroAccuracy int              `json:"macro_accuracy" yaml:"macro_accuracy"`
	Status        PlanStatus       `json:"status" yaml:"status"`
	GeneratedAt   time.Time        `json:"generated_at" yaml:"generated_at"`
	UpdatedAt     time.Time        `json:"updated_at" yaml:"updated_at"`

	mu sync.RWMutex
}

// NewMealPlan creates an active plan with a time-sortable ID.
func NewMealPlan(userID string, target MacroGoals, dist MealDistribution) *MealPlan {
	now := time.Now()
	return &MealPlan{
		ID:           ulid.Make().String(),
		UserID:       userID,
		TargetMacros: target,
		Distribution: dist,
		Status:       PlanActive,
		GeneratedAt:  now,
		UpdatedAt:    now,
	}
}

// Snapshot returns a deep copy taken under the read lock.
func (p *MealPlan) Snapshot() *MealPlan {
	p.mu.RLock()
	defer p.mu.RUnlock()

	meals := make([]GeneratedMeal, len(p.Meals))
	for i, m := range p.Meals {
		meals[i] = m.Clone()
	}
	return &MealPlan{
		ID:            p.ID,
		UserID:        p.UserID,
		TargetMacros:  p.TargetMacros,
		Distribution:  p.Distribution,
		Meals:         meals,
		TotalMacros:   p.TotalMacros,
		MacroAccuracy: p.MacroAccuracy,
		Status:        p.Status,
		GeneratedAt:   p.GeneratedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// MealIndex returns the position of the meal with the given ID, or -1.
func (p *MealPlan) MealIndex(mealID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i, m := range p.Meals {
		if m.ID == mealID {
			return i
		}
	}
	return -1
}

// SetMeals replaces every meal and recomputes totals and accuracy.
func (p *MealPlan) SetMeals(meals []GeneratedMeal, accuracy func(target, actual MacroGoals) int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Meals = meals
	p.recompute(accuracy)
}

// SwapMeal replaces the meal with mealID and recomputes totals and accuracy
// before releasing the lock. Returns false if no meal has that ID.
func (p *MealPlan) SwapMeal(mealID string, meal GeneratedMeal, accuracy func(target, actual MacroGoals) int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.Meals {
		if p.Meals[i].ID == mealID {
			p.Meals[i] = meal
			p.recompute(accuracy)
			return true
		}
	}
	return false
}

func (p *MealPlan) recompute(accuracy func(target, actual MacroGoals) int) {
	p.TotalMacros = SumMacros(p.Meals)
	p.MacroAccuracy = accuracy(p.TargetMacros, p.TotalMacros)
	p.UpdatedAt = time.Now()
}
