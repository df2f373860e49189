// ABOUTME: Timeline estimation and safe-pace checks for weight goals.
// ABOUTME: Validation helpers return results with messages and never fail.
package nutrition

import (
	"math"
	"time"

	"github.com/harperreed/mealplan/internal/models"
)

const (
	minTimelineWeeks = 1
	maxTimelineWeeks = 520

	// maintainTolerance is how far a maintenance target may sit from current weight.
	maintainTolerance = 2.0
	maxHealthyRate    = 1.0
)

// Timeline is the projected duration of a goal.
type Timeline struct {
	EstimatedWeeks int       `json:"estimated_weeks"`
	FinishDate     time.Time `json:"finish_date"`
}

// PaceValidation is the outcome of a pace safety check.
type PaceValidation struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`
}

// PaceRange is the recommended pace window for a goal, in kg per week.
type PaceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// EstimateTimeline projects weeks to goal and the finish date from now.
func EstimateTimeline(currentKg, targetKg, paceKgPerWeek float64, now time.Time) Timeline {
	delta := math.Abs(targetKg - currentKg)
	weeks := Round(delta / math.Abs(paceKgPerWeek))
	if math.IsNaN(weeks) {
		weeks = minTimelineWeeks
	}
	weeks = math.Max(minTimelineWeeks, math.Min(maxTimelineWeeks, weeks))

	return Timeline{
		EstimatedWeeks: int(weeks),
		FinishDate:     now.AddDate(0, 0, int(weeks)*7),
	}
}

// ValidateSafePace checks the absolute pace against goal-specific bounds.
func ValidateSafePace(paceKgPerWeek float64, goal models.GoalType) PaceValidation {
	pace := math.Abs(paceKgPerWeek)

	switch goal {
	case models.GoalCut:
		if pace < 0.25 {
			return PaceValidation{Message: "Minimum safe weight loss is 0.25kg/week"}
		}
		if pace > 1.0 {
			return PaceValidation{Message: "Maximum safe weight loss is 1.0kg/week"}
		}
	case models.GoalBulk:
		if pace < 0.125 {
			return PaceValidation{Message: "Minimum effective weight gain is 0.125kg/week"}
		}
		if pace > 0.5 {
			return PaceValidation{Message: "Maximum safe weight gain is 0.5kg/week"}
		}
	case models.GoalMaintain:
		if pace > 0.1 {
			return PaceValidation{Message: "Maintenance should have minimal weight change"}
		}
	}

	return PaceValidation{IsValid: true}
}

// GetRecommendedPaceRange returns the pace window for a goal.
func GetRecommendedPaceRange(goal models.GoalType) PaceRange {
	switch goal {
	case models.GoalCut:
		return PaceRange{Min: 0.25, Max: 1.0, Default: 0.5}
	case models.GoalBulk:
		return PaceRange{Min: 0.125, Max: 0.5, Default: 0.25}
	}
	return PaceRange{}
}

// ValidateTargetWeightDirection reports whether the target weight moves in
// the direction the goal implies.
func ValidateTargetWeightDirection(currentKg, targetKg float64, goal models.GoalType) bool {
	delta := targetKg - currentKg
	switch goal {
	case models.GoalCut:
		return delta < 0
	case models.GoalBulk:
		return delta > 0
	case models.GoalMaintain:
		return math.Abs(delta) <= maintainTolerance
	}
	return false
}

// CalculateWeightChangeRate returns the signed kg per week needed to reach
// goalKg in the given number of weeks.
func CalculateWeightChangeRate(currentKg, goalKg float64, weeks int) float64 {
	return (goalKg - currentKg) / float64(weeks)
}

// IsHealthyWeightChangeRate reports whether |rate| is at most 1 kg per week.
func IsHealthyWeightChangeRate(rate float64) bool {
	return math.Abs(rate) <= maxHealthyRate
}
