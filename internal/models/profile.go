// ABOUTME: Physical profile and goal models used by the nutrition calculations.
// ABOUTME: Defines stats, activity levels (with legacy aliases), body fat input, and goals.
package models

// Gender selects the sex-specific constants in BMR and body fat formulas.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid reports whether g is a known gender value.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// HeightUnit is the unit a height value was entered in.
type HeightUnit string

const (
	HeightCm HeightUnit = "cm"
	HeightIn HeightUnit = "in"
)

// WeightUnit is the unit a weight value was entered in.
type WeightUnit string

const (
	WeightKg WeightUnit = "kg"
	WeightLb WeightUnit = "lb"
)

// Height is a height measurement with its unit.
type Height struct {
	Value float64    `json:"value" yaml:"value"`
	Unit  HeightUnit `json:"unit" yaml:"unit"`
}

// Weight is a weight measurement with its unit.
type Weight struct {
	Value float64    `json:"value" yaml:"value"`
	Unit  WeightUnit `json:"unit" yaml:"unit"`
}

// PhysicalStats holds the user's body measurements as entered.
type PhysicalStats struct {
	AgeYears int    `json:"age_years" yaml:"age_years"`
	Height   Height `json:"height" yaml:"height"`
	Weight   Weight `json:"weight" yaml:"weight"`
	Gender   Gender `json:"gender" yaml:"gender"`
}

// ActivityLevel represents how active the user is day to day.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityVery      ActivityLevel = "very"
	ActivityExtra     ActivityLevel = "extra"

	// Legacy names stored by older onboarding records.
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtraActive      ActivityLevel = "extra_active"
)

// AllActivityLevels lists the current (non-legacy) activity levels.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityVery, ActivityExtra,
}

// BodyFatMethod selects how body fat is determined.
type BodyFatMethod string

const (
	BodyFatVisual  BodyFatMethod = "visual"
	BodyFatTape    BodyFatMethod = "tape"
	BodyFatKnown   BodyFatMethod = "known"
	BodyFatUnknown BodyFatMethod = "unknown"
)

// IsValid reports whether m is a known body fat method.
func (m BodyFatMethod) IsValid() bool {
	switch m {
	case BodyFatVisual, BodyFatTape, BodyFatKnown, BodyFatUnknown:
		return true
	}
	return false
}

// TapeMeasurements are circumference measurements in centimeters.
type TapeMeasurements struct {
	Waist *float64 `json:"waist,omitempty" yaml:"waist,omitempty"`
	Neck  *float64 `json:"neck,omitempty" yaml:"neck,omitempty"`
	Hip   *float64 `json:"hip,omitempty" yaml:"hip,omitempty"`
}

// BodyFatInput is the user's answer to the body fat step.
type BodyFatInput struct {
	Method       BodyFatMethod     `json:"method" yaml:"method"`
	Percent      *float64          `json:"percent,omitempty" yaml:"percent,omitempty"`
	VisualIndex  *int              `json:"visual_index,omitempty" yaml:"visual_index,omitempty"`
	Measurements *TapeMeasurements `json:"measurements,omitempty" yaml:"measurements,omitempty"`
}

// GoalType is the direction of the user's body weight goal.
type GoalType string

const (
	GoalCut      GoalType = "cut"
	GoalMaintain GoalType = "maintain"
	GoalBulk     GoalType = "bulk"
)

// IsValid reports whether g is a known goal type.
func (g GoalType) IsValid() bool {
	return g == GoalCut || g == GoalMaintain || g == GoalBulk
}

// GoalPlan is the target weight and pace chosen for a goal.
type GoalPlan struct {
	TargetWeightKg float64 `json:"target_weight_kg" yaml:"target_weight_kg"`
	PaceKgPerWeek  float64 `json:"pace_kg_per_week" yaml:"pace_kg_per_week"`
	EstimatedWeeks int     `json:"estimated_weeks" yaml:"estimated_weeks"`
}
