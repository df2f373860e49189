// ABOUTME: Tests for building a draft from one-shot answers.
// ABOUTME: Covers unit handling, body fat method inference and rejected answers.
package onboarding

import (
	"errors"
	"strings"
	"testing"

	"github.com/harperreed/mealplan/internal/models"
)

func baseAnswers() Answers {
	return Answers{
		Age: 25, Height: 175, Weight: 70, Gender: "male",
		Activity: "moderate", Goal: "cut", TargetWeight: 65,
	}
}

func TestDraftFromAnswers(t *testing.T) {
	d, err := DraftFromAnswers(baseAnswers())
	if err != nil {
		t.Fatalf("DraftFromAnswers failed: %v", err)
	}
	if d.CurrentStep != StepSummary {
		t.Errorf("CurrentStep = %d, want %d", d.CurrentStep, StepSummary)
	}
	if d.BodyFat.Method != models.BodyFatUnknown {
		t.Errorf("Method = %s, want unknown", d.BodyFat.Method)
	}
	if d.Plan.PaceKgPerWeek != 0.5 {
		t.Errorf("pace = %v, want recommended default 0.5", d.Plan.PaceKgPerWeek)
	}

	fromDraft := completeDraft(t)
	want, _ := Compute(fromDraft, baseTime)
	got, err := Compute(d, baseTime)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.CalorieTarget != want.CalorieTarget || got.Macros != want.Macros {
		t.Errorf("targets differ from field-by-field draft: %+v vs %+v", got.Macros, want.Macros)
	}
}

func TestDraftFromAnswersImperial(t *testing.T) {
	a := baseAnswers()
	a.Height, a.HeightUnit = 70, "in"
	a.Weight, a.WeightUnit = 160, "lb"
	a.TargetWeight = 68

	d, err := DraftFromAnswers(a)
	if err != nil {
		t.Fatalf("DraftFromAnswers failed: %v", err)
	}
	if d.Physical.Height.Unit != models.HeightIn || d.Physical.Weight.Unit != models.WeightLb {
		t.Errorf("units = %s/%s, want in/lb", d.Physical.Height.Unit, d.Physical.Weight.Unit)
	}
}

func TestDraftFromAnswersBodyFatMethod(t *testing.T) {
	pct := 18.0
	idx := 3
	waist, neck := 85.0, 38.0

	tests := []struct {
		name   string
		modify func(a *Answers)
		want   models.BodyFatMethod
	}{
		{"known", func(a *Answers) { a.BodyFat = &pct }, models.BodyFatKnown},
		{"tape", func(a *Answers) { a.Waist, a.Neck = &waist, &neck }, models.BodyFatTape},
		{"visual", func(a *Answers) { a.Visual = &idx }, models.BodyFatVisual},
		{"explicit wins", func(a *Answers) { a.BodyFat = &pct; a.BodyFatMethod = "unknown" }, models.BodyFatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseAnswers()
			tt.modify(&a)
			d, err := DraftFromAnswers(a)
			if err != nil {
				t.Fatalf("DraftFromAnswers failed: %v", err)
			}
			if d.BodyFat.Method != tt.want {
				t.Errorf("Method = %s, want %s", d.BodyFat.Method, tt.want)
			}
		})
	}
}

func TestDraftFromAnswersErrors(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(a *Answers)
		errSubstr string
	}{
		{"missing gender", func(a *Answers) { a.Gender = "" }, "invalid gender"},
		{"bad activity", func(a *Answers) { a.Activity = "couch" }, "activity"},
		{"bad goal", func(a *Answers) { a.Goal = "shred" }, "invalid goal"},
		{"too young", func(a *Answers) { a.Age = 10 }, "Age must be between"},
		{"bad unit", func(a *Answers) { a.HeightUnit = "ft" }, "invalid height unit"},
		{"bad method", func(a *Answers) { a.BodyFatMethod = "dexa" }, "invalid body fat method"},
		{"wrong direction", func(a *Answers) { a.TargetWeight = 80 }, "does not fit goal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseAnswers()
			tt.modify(&a)
			_, err := DraftFromAnswers(a)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
			}
		})
	}

	a := baseAnswers()
	a.Age = 0
	if _, err := DraftFromAnswers(a); !errors.Is(err, ErrIncomplete) {
		t.Errorf("missing age error = %v, want ErrIncomplete", err)
	}
}

func TestDraftFromAnswersRejectsBadBodyFat(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		modify    func(a *Answers)
		errSubstr string
	}{
		{"waist below neck", func(a *Answers) { a.Waist, a.Neck = f(30), f(40) }, "Waist must be larger than neck"},
		{"waist equals neck", func(a *Answers) { a.Waist, a.Neck = f(40), f(40) }, "Waist must be larger than neck"},
		{"known too high", func(a *Answers) { a.BodyFat = f(150) }, "Body fat must be between"},
		{"known too low", func(a *Answers) { a.BodyFat = f(2) }, "Body fat must be between"},
		{"male above range", func(a *Answers) { a.BodyFat = f(55) }, "plausible range"},
		{"waist too large", func(a *Answers) { a.Waist, a.Neck = f(250), f(40) }, "Waist must be between"},
		{"neck too small", func(a *Answers) { a.Waist, a.Neck = f(80), f(5) }, "Neck must be between"},
		{"female without hip", func(a *Answers) {
			a.Gender = "female"
			a.Waist, a.Neck = f(75), f(33)
		}, "Hip measurement is required"},
		{"female hip too large", func(a *Answers) {
			a.Gender = "female"
			a.Waist, a.Neck, a.Hip = f(75), f(33), f(260)
		}, "Hip must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseAnswers()
			tt.modify(&a)
			_, err := DraftFromAnswers(a)
			if !errors.Is(err, ErrIncomplete) {
				t.Fatalf("DraftFromAnswers error = %v, want ErrIncomplete", err)
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestDraftFromAnswersTimelineWeeks(t *testing.T) {
	a := baseAnswers()
	a.TimelineWeeks = 10

	d, err := DraftFromAnswers(a)
	if err != nil {
		t.Fatalf("DraftFromAnswers failed: %v", err)
	}
	if d.Plan.PaceKgPerWeek != 0.5 || d.Plan.EstimatedWeeks != 10 {
		t.Errorf("Plan = %+v, want 0.5 kg/week over 10 weeks", d.Plan)
	}

	a.PaceKg = 0.25
	d, err = DraftFromAnswers(a)
	if err != nil {
		t.Fatalf("DraftFromAnswers with pace failed: %v", err)
	}
	if d.Plan.PaceKgPerWeek != 0.25 {
		t.Errorf("PaceKgPerWeek = %v, want explicit 0.25", d.Plan.PaceKgPerWeek)
	}

	a = baseAnswers()
	a.TimelineWeeks = 2
	if _, err := DraftFromAnswers(a); !errors.Is(err, ErrIncomplete) {
		t.Errorf("5 kg in 2 weeks = %v, want ErrIncomplete", err)
	}
}
