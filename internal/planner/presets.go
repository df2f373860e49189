// ABOUTME: Named meal distribution presets offered when generating a plan.
package planner

import (
	"strings"

	"github.com/harperreed/mealplan/internal/models"
)

// Preset is a named split of the daily target across meal types.
type Preset struct {
	Key          string                  `json:"key"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Distribution models.MealDistribution `json:"distribution"`
}

// DistributionPresets returns the built-in presets, standard first.
func DistributionPresets() []Preset {
	return []Preset{
		{"standard", "Standard", "Balanced lunch and dinner", models.DefaultDistribution()},
		{"front-loaded", "Front-loaded", "Bigger breakfast", models.MealDistribution{Breakfast: 35, Lunch: 30, Dinner: 25, Snacks: 10}},
		{"dinner-focus", "Dinner Focus", "Bigger dinner", models.MealDistribution{Breakfast: 20, Lunch: 30, Dinner: 45, Snacks: 5}},
		{"frequent", "Frequent Small Meals", "Smaller meals with more snacking", models.MealDistribution{Breakfast: 20, Lunch: 25, Dinner: 25, Snacks: 30}},
	}
}

// FindPreset looks up a preset by key or name, case-insensitively.
func FindPreset(name string) (Preset, bool) {
	for _, p := range DistributionPresets() {
		if strings.EqualFold(p.Key, name) || strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
