// ABOUTME: Onboarding draft state and migration from the legacy flat record.
// ABOUTME: DecodeDraft accepts either shape and always returns a structured Draft.
package onboarding

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
)

// DraftVersion marks drafts written in the structured shape.
const DraftVersion = 2

// Steps run from StepWelcome to StepSummary.
const (
	StepWelcome  = 1
	StepPhysical = 2
	StepActivity = 3
	StepBodyFat  = 4
	StepGoal     = 5
	StepPlan     = 6
	StepTimeline = 7
	StepMacros   = 8
	StepSummary  = 9
)

// legacyDefaultWeightKg stands in for a missing weight when deriving pace.
const legacyDefaultWeightKg = 70

// Draft is onboarding progress. Zero values mean "not answered yet".
type Draft struct {
	Version     int                  `json:"version"`
	CurrentStep int                  `json:"current_step"`
	Physical    models.PhysicalStats `json:"physical"`
	Activity    models.ActivityLevel `json:"activity,omitempty"`
	BodyFat     models.BodyFatInput  `json:"body_fat"`
	Goal        models.GoalType      `json:"goal,omitempty"`
	Plan        models.GoalPlan      `json:"plan"`
	Completed   bool                 `json:"completed"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewDraft returns an empty draft on the first step.
func NewDraft() *Draft {
	return &Draft{
		Version:     DraftVersion,
		CurrentStep: StepWelcome,
		BodyFat:     models.BodyFatInput{Method: models.BodyFatUnknown},
		Physical: models.PhysicalStats{
			Height: models.Height{Unit: models.HeightCm},
			Weight: models.Weight{Unit: models.WeightKg},
		},
	}
}

// LegacyRecord is the flat onboarding shape stored by older clients.
// Height is in cm and weight in kg.
type LegacyRecord struct {
	Age           int           `json:"age"`
	Height        float64       `json:"height"`
	Weight        float64       `json:"weight"`
	Gender        models.Gender `json:"gender"`
	ActivityLevel string        `json:"activityLevel"`
	BodyFat       *float64      `json:"bodyFat"`
	Goal          string        `json:"goal"`
	GoalWeight    float64       `json:"goalWeight"`
	TimelineWeeks int           `json:"timelineWeeks"`
	CurrentStep   int           `json:"currentStep"`
	Completed     bool          `json:"completed"`
}

// Migrate converts a legacy record into a structured draft. Unknown
// activity names fall back to moderate.
func Migrate(r LegacyRecord) *Draft {
	d := NewDraft()

	if r.Age > 0 && r.Height > 0 && r.Weight > 0 && r.Gender != "" {
		d.Physical = models.PhysicalStats{
			AgeYears: r.Age,
			Height:   models.Height{Value: r.Height, Unit: models.HeightCm},
			Weight:   models.Weight{Value: r.Weight, Unit: models.WeightKg},
			Gender:   r.Gender,
		}
	}

	if r.ActivityLevel != "" {
		level, err := nutrition.NormalizeActivityLevel(models.ActivityLevel(r.ActivityLevel))
		if err != nil {
			level = models.ActivityModerate
		}
		d.Activity = level
	}

	if r.BodyFat != nil && *r.BodyFat > 0 {
		pct := *r.BodyFat
		d.BodyFat = models.BodyFatInput{Method: models.BodyFatKnown, Percent: &pct}
	}

	d.Goal = models.GoalType(r.Goal)

	if r.GoalWeight > 0 && r.TimelineWeeks > 0 {
		current := r.Weight
		if current == 0 {
			current = legacyDefaultWeightKg
		}
		rate := nutrition.CalculateWeightChangeRate(current, r.GoalWeight, r.TimelineWeeks)
		d.Plan = models.GoalPlan{
			TargetWeightKg: r.GoalWeight,
			PaceKgPerWeek:  math.Abs(rate),
			EstimatedWeeks: r.TimelineWeeks,
		}
	}

	d.Completed = r.Completed
	switch {
	case r.Completed:
		d.CurrentStep = StepSummary
	case r.CurrentStep > 0:
		d.CurrentStep = r.CurrentStep
	}
	return d
}

// LegacyFromTargets flattens computed targets into the record older
// clients read. Activity levels use their legacy names.
func LegacyFromTargets(t *Targets) LegacyRecord {
	r := LegacyRecord{
		Age:         t.AgeYears,
		Height:      t.Metric.HeightCm,
		Weight:      t.Metric.WeightKg,
		Gender:      t.Gender,
		Goal:        string(t.Goal),
		GoalWeight:  t.TargetWeightKg,
		CurrentStep: StepSummary,
		Completed:   true,
	}
	if t.Activity != "" {
		r.ActivityLevel = string(nutrition.LegacyActivityLevel(t.Activity))
	}
	if t.BodyFatPercent > 0 {
		bf := t.BodyFatPercent
		r.BodyFat = &bf
	}
	if t.Timeline != nil {
		r.TimelineWeeks = t.Timeline.EstimatedWeeks
	}
	return r
}

// DecodeDraft parses a stored draft in either the structured or the legacy
// shape.
func DecodeDraft(data []byte) (*Draft, error) {
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}

	if header.Version >= DraftVersion {
		var d Draft
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode draft: %w", err)
		}
		return &d, nil
	}

	var legacy LegacyRecord
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy draft: %w", err)
	}
	return Migrate(legacy), nil
}

// EncodeDraft serializes a draft in the structured shape.
func EncodeDraft(d *Draft) ([]byte, error) {
	d.Version = DraftVersion
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return data, nil
}
