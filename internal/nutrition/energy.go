// ABOUTME: Unit conversion, BMR (Mifflin-St Jeor), and TDEE calculations.
// ABOUTME: Activity multipliers accept both current and legacy level names.
package nutrition

import (
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/mealplan/internal/models"
)

const (
	inchesToCm = 2.54
	lbsToKg    = 0.453592

	// kcalPerKgFat is the energy content of one kilogram of body fat.
	kcalPerKgFat = 7700
)

// ErrInvalidActivityLevel is returned for an unrecognized activity level.
var ErrInvalidActivityLevel = errors.New("invalid activity level")

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary: 1.2,
	models.ActivityLight:     1.375,
	models.ActivityModerate:  1.55,
	models.ActivityVery:      1.725,
	models.ActivityExtra:     1.9,

	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtraActive:      1.9,
}

var legacyActivityLevels = map[models.ActivityLevel]models.ActivityLevel{
	models.ActivityLightlyActive:    models.ActivityLight,
	models.ActivityModeratelyActive: models.ActivityModerate,
	models.ActivityVeryActive:       models.ActivityVery,
	models.ActivityExtraActive:      models.ActivityExtra,
}

// Round rounds half up, so 2.5 becomes 3 and -2.5 becomes -2.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Metric is a height and weight in centimeters and kilograms.
type Metric struct {
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
}

// ConvertToMetric normalizes height to cm and weight to kg.
func ConvertToMetric(stats models.PhysicalStats) Metric {
	heightCm := stats.Height.Value
	weightKg := stats.Weight.Value

	if stats.Height.Unit == models.HeightIn {
		heightCm *= inchesToCm
	}
	if stats.Weight.Unit == models.WeightLb {
		weightKg *= lbsToKg
	}

	return Metric{HeightCm: heightCm, WeightKg: weightKg}
}

// CalculateBMR estimates resting energy expenditure with Mifflin-St Jeor.
// Inputs are not validated; the formula is linear in every term.
func CalculateBMR(weightKg, heightCm float64, ageYears int, gender models.Gender) int {
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if gender == models.GenderMale {
		return int(Round(base + 5))
	}
	return int(Round(base - 161))
}

// ActivityMultiplier returns the TDEE multiplier for a level.
func ActivityMultiplier(level models.ActivityLevel) (float64, error) {
	m, ok := activityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidActivityLevel, level)
	}
	return m, nil
}

// CalculateTDEE scales BMR by the activity multiplier.
func CalculateTDEE(bmr int, level models.ActivityLevel) (int, error) {
	m, err := ActivityMultiplier(level)
	if err != nil {
		return 0, err
	}
	return int(Round(float64(bmr) * m)), nil
}

// NormalizeActivityLevel maps legacy level names onto the current ones.
func NormalizeActivityLevel(level models.ActivityLevel) (models.ActivityLevel, error) {
	if current, ok := legacyActivityLevels[level]; ok {
		return current, nil
	}
	if _, ok := activityMultipliers[level]; ok {
		return level, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidActivityLevel, level)
}

// LegacyActivityLevel maps a current level back to its legacy name.
// Sedentary has no legacy alias and maps to itself.
func LegacyActivityLevel(level models.ActivityLevel) models.ActivityLevel {
	for legacy, current := range legacyActivityLevels {
		if current == level {
			return legacy
		}
	}
	return models.ActivitySedentary
}
