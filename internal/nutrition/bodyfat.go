// ABOUTME: Body fat estimators (Navy tape, visual scale, BMI fallback) and lean mass.
// ABOUTME: EstimateBodyFat dispatches on the method chosen during onboarding.
package nutrition

import (
	"errors"
	"math"

	"github.com/harperreed/mealplan/internal/models"
)

// ErrMissingMeasurement is returned when a method lacks a required input.
var ErrMissingMeasurement = errors.New("missing required measurement")

var (
	maleVisualLevels   = []float64{8, 12, 16, 20, 25, 30}
	femaleVisualLevels = []float64{16, 20, 24, 28, 32, 36}
)

// bmiAgeTerm stands in for the age component of the BMI body fat equation.
const bmiAgeTerm = 30

// EstimateBodyFatNavy applies the US Navy circumference formula.
// Women need a hip measurement.
func EstimateBodyFatNavy(waistCm, neckCm, heightCm float64, gender models.Gender, hipCm *float64) (float64, error) {
	if gender == models.GenderMale {
		d := 1.0324 - 0.19077*math.Log10(waistCm-neckCm) + 0.15456*math.Log10(heightCm)
		return Round(495/d - 450), nil
	}
	if hipCm == nil || *hipCm == 0 {
		return 0, errors.Join(ErrMissingMeasurement, errors.New("hip measurement required for women"))
	}
	d := 1.29579 - 0.35004*math.Log10(waistCm+*hipCm-neckCm) + 0.22100*math.Log10(heightCm)
	return Round(495/d - 450), nil
}

// EstimateBodyFatFromVisual looks up the percentage for a visual scale index.
func EstimateBodyFatFromVisual(index int, gender models.Gender) float64 {
	levels := femaleVisualLevels
	if gender == models.GenderMale {
		levels = maleVisualLevels
	}
	if index < 0 {
		index = 0
	}
	if index > len(levels)-1 {
		index = len(levels) - 1
	}
	return levels[index]
}

// EstimateBodyFatFromBMI is a rough fallback when no better data exists.
func EstimateBodyFatFromBMI(weightKg, heightCm float64, gender models.Gender) float64 {
	bmi := weightKg / math.Pow(heightCm/100, 2)
	if gender == models.GenderMale {
		return clamp(1.2*bmi+0.23*bmiAgeTerm-16.2, 8, 35)
	}
	return clamp(1.2*bmi+0.23*bmiAgeTerm-5.4, 16, 45)
}

// EstimateBodyFat resolves a body fat percentage from the user's input.
func EstimateBodyFat(in models.BodyFatInput, m Metric, gender models.Gender) (float64, error) {
	switch in.Method {
	case models.BodyFatKnown:
		if in.Percent == nil {
			return 0, errors.Join(ErrMissingMeasurement, errors.New("known method requires a percentage"))
		}
		return *in.Percent, nil
	case models.BodyFatTape:
		if in.Measurements == nil || in.Measurements.Waist == nil || in.Measurements.Neck == nil {
			return 0, errors.Join(ErrMissingMeasurement, errors.New("tape method requires waist and neck"))
		}
		return EstimateBodyFatNavy(*in.Measurements.Waist, *in.Measurements.Neck, m.HeightCm, gender, in.Measurements.Hip)
	case models.BodyFatVisual:
		if in.VisualIndex != nil {
			return EstimateBodyFatFromVisual(*in.VisualIndex, gender), nil
		}
		if in.Percent != nil {
			return *in.Percent, nil
		}
		return 0, errors.Join(ErrMissingMeasurement, errors.New("visual method requires a selection"))
	default:
		return EstimateBodyFatFromBMI(m.WeightKg, m.HeightCm, gender), nil
	}
}

// CalculateLeanBodyMass returns weight minus fat mass, to one decimal.
func CalculateLeanBodyMass(weightKg, bodyFatPercent float64) float64 {
	return Round(weightKg*(1-bodyFatPercent/100)*10) / 10
}

// ValidateBodyFatForGender checks a percentage against plausible ranges.
func ValidateBodyFatForGender(percent float64, gender models.Gender) bool {
	if gender == models.GenderMale {
		return percent >= 3 && percent <= 50
	}
	return percent >= 10 && percent <= 60
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
