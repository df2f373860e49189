// ABOUTME: Per-step validation of onboarding answers and field-level updates.
// ABOUTME: Validation returns a result with a message; it never fails.
package onboarding

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
)

// Accepted ranges for physical stats, in metric units.
const (
	MinAge      = 13
	MaxAge      = 100
	MinHeightCm = 120
	MaxHeightCm = 230
	MinWeightKg = 30
	MaxWeightKg = 300
)

// Accepted body fat inputs. Circumferences are in centimeters.
const (
	MinBodyFatPercent = 3
	MaxBodyFatPercent = 60
	MinCircumference  = 10
	MaxWaistCm        = 200
	MaxNeckCm         = 100
	MaxHipCm          = 200
)

// StepValidation is the result of checking one step.
type StepValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func invalid(format string, args ...any) StepValidation {
	return StepValidation{Message: fmt.Sprintf(format, args...)}
}

// ValidateStep reports whether the draft has what the step requires.
func ValidateStep(step int, d *Draft) StepValidation {
	switch step {
	case StepWelcome, StepTimeline, StepMacros:
		return StepValidation{Valid: true}

	case StepBodyFat:
		return validateBodyFat(d.BodyFat, d.Physical.Gender)

	case StepPhysical:
		m := nutrition.ConvertToMetric(d.Physical)
		switch {
		case d.Physical.AgeYears < MinAge || d.Physical.AgeYears > MaxAge:
			return invalid("Age must be between %d and %d", MinAge, MaxAge)
		case m.HeightCm < MinHeightCm || m.HeightCm > MaxHeightCm:
			return invalid("Height must be between %d and %d cm", MinHeightCm, MaxHeightCm)
		case m.WeightKg < MinWeightKg || m.WeightKg > MaxWeightKg:
			return invalid("Weight must be between %d and %d kg", MinWeightKg, MaxWeightKg)
		}
		return StepValidation{Valid: true}

	case StepActivity:
		if !d.Physical.Gender.IsValid() {
			return invalid("Gender is required")
		}
		if _, err := nutrition.ActivityMultiplier(d.Activity); err != nil {
			return invalid("Activity level is required")
		}
		return StepValidation{Valid: true}

	case StepGoal:
		if !d.Goal.IsValid() {
			return invalid("Goal is required")
		}
		return StepValidation{Valid: true}

	case StepPlan:
		if d.Goal == models.GoalMaintain {
			return StepValidation{Valid: true}
		}
		if d.Plan.TargetWeightKg <= 0 || d.Plan.PaceKgPerWeek <= 0 {
			return invalid("Target weight and pace are required")
		}
		return StepValidation{Valid: true}
	}

	return invalid("Unknown step %d", step)
}

func validateBodyFat(in models.BodyFatInput, gender models.Gender) StepValidation {
	if in.Percent != nil {
		p := *in.Percent
		if p < MinBodyFatPercent || p > MaxBodyFatPercent {
			return invalid("Body fat must be between %d%% and %d%%", MinBodyFatPercent, MaxBodyFatPercent)
		}
		if !nutrition.ValidateBodyFatForGender(p, gender) {
			return invalid("Body fat of %.1f%% is outside the plausible range for %s", p, gender)
		}
	}

	switch in.Method {
	case models.BodyFatKnown:
		if in.Percent == nil {
			return invalid("Body fat percentage is required")
		}

	case models.BodyFatTape:
		m := in.Measurements
		if m == nil || m.Waist == nil || m.Neck == nil {
			return invalid("Waist and neck measurements are required")
		}
		waist, neck := *m.Waist, *m.Neck
		switch {
		case waist < MinCircumference || waist > MaxWaistCm:
			return invalid("Waist must be between %d and %d cm", MinCircumference, MaxWaistCm)
		case neck < MinCircumference || neck > MaxNeckCm:
			return invalid("Neck must be between %d and %d cm", MinCircumference, MaxNeckCm)
		}
		if gender == models.GenderMale {
			if waist <= neck {
				return invalid("Waist must be larger than neck")
			}
			break
		}
		if m.Hip == nil || *m.Hip == 0 {
			return invalid("Hip measurement is required for women")
		}
		if hip := *m.Hip; hip < MinCircumference || hip > MaxHipCm {
			return invalid("Hip must be between %d and %d cm", MinCircumference, MaxHipCm)
		}
		if waist+*m.Hip <= neck {
			return invalid("Waist and hip together must be larger than neck")
		}

	case models.BodyFatVisual:
		if in.VisualIndex == nil && in.Percent == nil {
			return invalid("Pick a visual body fat level")
		}

	case models.BodyFatUnknown, "":

	default:
		return invalid("Unknown body fat method %q", in.Method)
	}

	return StepValidation{Valid: true}
}

// Fields lists the names accepted by ApplyField.
var Fields = []string{
	"age", "height", "height_unit", "weight", "weight_unit", "gender",
	"activity", "bodyfat_method", "bodyfat", "visual", "waist", "neck", "hip",
	"goal", "target_weight", "pace",
}

// ApplyField sets one answer on the draft from its text form.
func ApplyField(d *Draft, field, value string) error {
	value = strings.TrimSpace(value)

	num := func() (float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
		}
		return f, nil
	}

	switch field {
	case "age":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid age %q: %w", value, err)
		}
		d.Physical.AgeYears = n
	case "height":
		f, err := num()
		if err != nil {
			return err
		}
		d.Physical.Height.Value = f
	case "height_unit":
		u := models.HeightUnit(value)
		if u != models.HeightCm && u != models.HeightIn {
			return fmt.Errorf("invalid height unit %q (use cm or in)", value)
		}
		d.Physical.Height.Unit = u
	case "weight":
		f, err := num()
		if err != nil {
			return err
		}
		d.Physical.Weight.Value = f
	case "weight_unit":
		u := models.WeightUnit(value)
		if u != models.WeightKg && u != models.WeightLb {
			return fmt.Errorf("invalid weight unit %q (use kg or lb)", value)
		}
		d.Physical.Weight.Unit = u
	case "gender":
		g := models.Gender(strings.ToLower(value))
		if !g.IsValid() {
			return fmt.Errorf("invalid gender %q (use male or female)", value)
		}
		d.Physical.Gender = g
	case "activity":
		level, err := nutrition.NormalizeActivityLevel(models.ActivityLevel(value))
		if err != nil {
			return err
		}
		d.Activity = level
	case "bodyfat_method":
		m := models.BodyFatMethod(value)
		if !m.IsValid() {
			return fmt.Errorf("invalid body fat method %q", value)
		}
		d.BodyFat.Method = m
	case "bodyfat":
		f, err := num()
		if err != nil {
			return err
		}
		d.BodyFat.Percent = &f
	case "visual":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid visual index %q: %w", value, err)
		}
		d.BodyFat.VisualIndex = &n
	case "waist", "neck", "hip":
		f, err := num()
		if err != nil {
			return err
		}
		if d.BodyFat.Measurements == nil {
			d.BodyFat.Measurements = &models.TapeMeasurements{}
		}
		switch field {
		case "waist":
			d.BodyFat.Measurements.Waist = &f
		case "neck":
			d.BodyFat.Measurements.Neck = &f
		case "hip":
			d.BodyFat.Measurements.Hip = &f
		}
	case "goal":
		g := models.GoalType(value)
		if !g.IsValid() {
			return fmt.Errorf("invalid goal %q (use cut, maintain or bulk)", value)
		}
		SetGoal(d, g)
	case "target_weight":
		f, err := num()
		if err != nil {
			return err
		}
		d.Plan.TargetWeightKg = f
	case "pace":
		f, err := num()
		if err != nil {
			return err
		}
		d.Plan.PaceKgPerWeek = f
	default:
		return fmt.Errorf("unknown field %q (valid: %s)", field, strings.Join(Fields, ", "))
	}
	return nil
}

// SetGoal records the goal and fills in the recommended pace if none is set.
func SetGoal(d *Draft, goal models.GoalType) {
	d.Goal = goal
	if d.Plan.PaceKgPerWeek == 0 {
		d.Plan.PaceKgPerWeek = nutrition.GetRecommendedPaceRange(goal).Default
	}
}
