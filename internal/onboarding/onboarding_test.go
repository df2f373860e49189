// ABOUTME: Tests for onboarding drafts, legacy migration, step validation and Compute.
// ABOUTME: Uses the in-memory DraftStore with a fake clock for expiry.
package onboarding

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func completeDraft(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft()
	for _, kv := range [][2]string{
		{"age", "25"}, {"height", "175"}, {"weight", "70"}, {"gender", "male"},
		{"activity", "moderate"}, {"goal", "cut"}, {"target_weight", "65"},
	} {
		if err := ApplyField(d, kv[0], kv[1]); err != nil {
			t.Fatalf("ApplyField(%s, %s): %v", kv[0], kv[1], err)
		}
	}
	return d
}

func TestCompute(t *testing.T) {
	d := completeDraft(t)

	got, err := Compute(d, baseTime)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.BMR != 1674 || got.TDEE != 2595 {
		t.Errorf("BMR/TDEE = %d/%d, want 1674/2595", got.BMR, got.TDEE)
	}
	if got.LeanBodyMassKg != 57.3 {
		t.Errorf("LeanBodyMassKg = %v, want 57.3", got.LeanBodyMassKg)
	}
	if got.CalorieTarget != 2045 {
		t.Errorf("CalorieTarget = %d, want 2045", got.CalorieTarget)
	}
	want := models.MacroGoals{Kcal: 2045, ProteinG: 140, CarbsG: 250, FatG: 55}
	if got.Macros != want {
		t.Errorf("Macros = %+v, want %+v", got.Macros, want)
	}
	if got.Timeline == nil || got.Timeline.EstimatedWeeks != 10 {
		t.Errorf("Timeline = %+v, want 10 weeks", got.Timeline)
	}
	if !got.Pace.IsValid {
		t.Errorf("default cut pace should be valid: %s", got.Pace.Message)
	}
	if got.FiberG != 29 || got.WaterMl != 2450 {
		t.Errorf("fiber/water = %d/%d, want 29/2450", got.FiberG, got.WaterMl)
	}
}

func TestComputeMaintainIgnoresPace(t *testing.T) {
	d := completeDraft(t)
	d.Goal = models.GoalMaintain
	d.Plan.PaceKgPerWeek = 0.75

	got, err := Compute(d, baseTime)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if got.CalorieTarget != got.TDEE {
		t.Errorf("maintain target = %d, want TDEE %d", got.CalorieTarget, got.TDEE)
	}
	if got.Timeline != nil {
		t.Error("maintain should have no timeline")
	}
}

func TestComputeErrors(t *testing.T) {
	if _, err := Compute(NewDraft(), baseTime); !errors.Is(err, ErrIncomplete) {
		t.Errorf("empty draft: expected ErrIncomplete, got %v", err)
	}

	d := completeDraft(t)
	d.Activity = "couch"
	if _, err := Compute(d, baseTime); !errors.Is(err, nutrition.ErrInvalidActivityLevel) {
		t.Errorf("bad activity: expected ErrInvalidActivityLevel, got %v", err)
	}

	d = completeDraft(t)
	d.Physical.Gender = models.GenderFemale
	for _, kv := range [][2]string{{"bodyfat_method", "tape"}, {"waist", "75"}, {"neck", "32"}} {
		if err := ApplyField(d, kv[0], kv[1]); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Compute(d, baseTime); !errors.Is(err, nutrition.ErrMissingMeasurement) {
		t.Errorf("female tape without hip: expected ErrMissingMeasurement, got %v", err)
	}
}

func TestValidateStep(t *testing.T) {
	d := completeDraft(t)

	tests := []struct {
		name  string
		step  int
		mut   func(d *Draft)
		valid bool
	}{
		{"welcome", StepWelcome, nil, true},
		{"physical ok", StepPhysical, nil, true},
		{"too young", StepPhysical, func(d *Draft) { d.Physical.AgeYears = 12 }, false},
		{"too short", StepPhysical, func(d *Draft) { d.Physical.Height.Value = 110 }, false},
		{"inches ok", StepPhysical, func(d *Draft) {
			d.Physical.Height = models.Height{Value: 70, Unit: models.HeightIn}
		}, true},
		{"too heavy", StepPhysical, func(d *Draft) { d.Physical.Weight.Value = 301 }, false},
		{"activity ok", StepActivity, nil, true},
		{"activity missing", StepActivity, func(d *Draft) { d.Activity = "" }, false},
		{"gender missing", StepActivity, func(d *Draft) { d.Physical.Gender = "" }, false},
		{"goal missing", StepGoal, func(d *Draft) { d.Goal = "" }, false},
		{"plan ok", StepPlan, nil, true},
		{"plan missing target", StepPlan, func(d *Draft) { d.Plan.TargetWeightKg = 0 }, false},
		{"maintain skips plan", StepPlan, func(d *Draft) { d.Goal = models.GoalMaintain; d.Plan = models.GoalPlan{} }, true},
		{"body fat unknown", StepBodyFat, nil, true},
		{"body fat known ok", StepBodyFat, func(d *Draft) {
			pct := 18.0
			d.BodyFat = models.BodyFatInput{Method: models.BodyFatKnown, Percent: &pct}
		}, true},
		{"body fat known missing", StepBodyFat, func(d *Draft) {
			d.BodyFat = models.BodyFatInput{Method: models.BodyFatKnown}
		}, false},
		{"body fat known out of range", StepBodyFat, func(d *Draft) {
			pct := 150.0
			d.BodyFat = models.BodyFatInput{Method: models.BodyFatKnown, Percent: &pct}
		}, false},
		{"tape ok", StepBodyFat, func(d *Draft) {
			waist, neck := 85.0, 38.0
			d.BodyFat = models.BodyFatInput{Method: models.BodyFatTape,
				Measurements: &models.TapeMeasurements{Waist: &waist, Neck: &neck}}
		}, true},
		{"tape waist below neck", StepBodyFat, func(d *Draft) {
			waist, neck := 30.0, 40.0
			d.BodyFat = models.BodyFatInput{Method: models.BodyFatTape,
				Measurements: &models.TapeMeasurements{Waist: &waist, Neck: &neck}}
		}, false},
		{"tape missing neck", StepBodyFat, func(d *Draft) {
			waist := 85.0
			d.BodyFat = models.BodyFatInput{Method: models.BodyFatTape,
				Measurements: &models.TapeMeasurements{Waist: &waist}}
		}, false},
		{"visual missing", StepBodyFat, func(d *Draft) {
			d.BodyFat = models.BodyFatInput{Method: models.BodyFatVisual}
		}, false},
		{"macros", StepMacros, nil, true},
		{"unknown step", 42, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := *d
			if tt.mut != nil {
				tt.mut(&cp)
			}
			v := ValidateStep(tt.step, &cp)
			if v.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (message %q)", v.Valid, tt.valid, v.Message)
			}
			if !v.Valid && v.Message == "" {
				t.Error("invalid step should carry a message")
			}
		})
	}
}

func TestApplyField(t *testing.T) {
	d := NewDraft()

	if err := ApplyField(d, "activity", "very_active"); err != nil {
		t.Fatal(err)
	}
	if d.Activity != models.ActivityVery {
		t.Errorf("legacy activity should normalize, got %q", d.Activity)
	}

	if err := ApplyField(d, "goal", "bulk"); err != nil {
		t.Fatal(err)
	}
	if d.Plan.PaceKgPerWeek != 0.25 {
		t.Errorf("goal should set default pace, got %v", d.Plan.PaceKgPerWeek)
	}

	if err := ApplyField(d, "hip", "98"); err != nil {
		t.Fatal(err)
	}
	if d.BodyFat.Measurements == nil || *d.BodyFat.Measurements.Hip != 98 {
		t.Error("hip not stored")
	}

	for _, bad := range [][2]string{
		{"age", "old"}, {"gender", "other"}, {"height_unit", "ft"},
		{"goal", "shred"}, {"activity", "couch"}, {"favorite_food", "buuz"},
	} {
		if err := ApplyField(d, bad[0], bad[1]); err == nil {
			t.Errorf("ApplyField(%s, %s) should fail", bad[0], bad[1])
		}
	}
}

func TestMigrateLegacy(t *testing.T) {
	bf := 18.0
	got := Migrate(LegacyRecord{
		Age: 30, Height: 180, Weight: 90, Gender: models.GenderMale,
		ActivityLevel: "lightly_active", BodyFat: &bf, Goal: "cut",
		GoalWeight: 80, TimelineWeeks: 20, CurrentStep: 4,
	})

	if got.Physical.AgeYears != 30 || got.Physical.Height.Unit != models.HeightCm || got.Physical.Weight.Value != 90 {
		t.Errorf("physical not migrated: %+v", got.Physical)
	}
	if got.Activity != models.ActivityLight {
		t.Errorf("Activity = %q, want light", got.Activity)
	}
	if got.BodyFat.Method != models.BodyFatKnown || *got.BodyFat.Percent != 18 {
		t.Errorf("BodyFat = %+v", got.BodyFat)
	}
	if got.Goal != models.GoalCut {
		t.Errorf("Goal = %q", got.Goal)
	}
	if got.Plan.PaceKgPerWeek != 0.5 || got.Plan.EstimatedWeeks != 20 {
		t.Errorf("Plan = %+v, want pace 0.5 over 20 weeks", got.Plan)
	}
	if got.CurrentStep != 4 {
		t.Errorf("CurrentStep = %d, want 4", got.CurrentStep)
	}
}

func TestMigrateLegacyDefaults(t *testing.T) {
	got := Migrate(LegacyRecord{ActivityLevel: "weird", GoalWeight: 60, TimelineWeeks: 20, Completed: true})

	if got.Activity != models.ActivityModerate {
		t.Errorf("unknown activity should fall back to moderate, got %q", got.Activity)
	}
	// Missing weight defaults to 70 kg: |60-70|/20.
	if got.Plan.PaceKgPerWeek != 0.5 {
		t.Errorf("pace = %v, want 0.5", got.Plan.PaceKgPerWeek)
	}
	if got.CurrentStep != StepSummary {
		t.Errorf("completed record should land on summary, got %d", got.CurrentStep)
	}
}

func TestDecodeDraftBothShapes(t *testing.T) {
	legacy := []byte(`{"age":28,"height":165,"weight":60,"gender":"female","activityLevel":"very_active","goal":"maintain"}`)
	d, err := DecodeDraft(legacy)
	if err != nil {
		t.Fatalf("DecodeDraft legacy: %v", err)
	}
	if d.Activity != models.ActivityVery || d.Physical.Gender != models.GenderFemale {
		t.Errorf("legacy decode = %+v", d)
	}

	data, err := EncodeDraft(completeDraft(t))
	if err != nil {
		t.Fatal(err)
	}
	d, err = DecodeDraft(data)
	if err != nil {
		t.Fatalf("DecodeDraft structured: %v", err)
	}
	if d.Version != DraftVersion || d.Plan.TargetWeightKg != 65 {
		t.Errorf("structured decode = %+v", d)
	}

	if _, err := DecodeDraft([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSessionPersistsAndResumes(t *testing.T) {
	store := NewMemoryStore()
	clock := baseTime
	now := func() time.Time { return clock }

	s, err := Open(store, "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("age", "40"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatal(err)
	}

	clock = baseTime.Add(23 * time.Hour)
	resumed, err := Open(store, "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if resumed.Draft().Physical.AgeYears != 40 || resumed.Draft().CurrentStep != StepPhysical {
		t.Errorf("draft not resumed: %+v", resumed.Draft())
	}
}

func TestSessionDraftExpires(t *testing.T) {
	store := NewMemoryStore()
	clock := baseTime
	now := func() time.Time { return clock }

	s, _ := Open(store, "u1", now)
	if err := s.Set("age", "40"); err != nil {
		t.Fatal(err)
	}

	clock = baseTime.Add(24 * time.Hour)
	fresh, err := Open(store, "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Draft().Physical.AgeYears != 0 {
		t.Error("expired draft should be discarded")
	}
	if _, ok, _ := store.Load("u1"); ok {
		t.Error("expired draft should be deleted from the store")
	}
}

func TestSessionLegacyRecordResumes(t *testing.T) {
	store := NewMemoryStore()
	store.SaveRaw("u1", []byte(`{"age":30,"height":180,"weight":90,"gender":"male","activityLevel":"sedentary","goal":"bulk"}`))

	s, err := Open(store, "u1", func() time.Time { return baseTime })
	if err != nil {
		t.Fatal(err)
	}
	if s.Draft().Goal != models.GoalBulk || s.Draft().Activity != models.ActivitySedentary {
		t.Errorf("legacy record not migrated on open: %+v", s.Draft())
	}
}

func TestSessionStepNavigation(t *testing.T) {
	s, _ := Open(NewMemoryStore(), "u1", func() time.Time { return baseTime })

	if err := s.Previous(); err != nil || s.Draft().CurrentStep != StepWelcome {
		t.Errorf("Previous on first step: step=%d err=%v", s.Draft().CurrentStep, err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatal(err)
	}
	v, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if v.Valid || s.Draft().CurrentStep != StepPhysical {
		t.Errorf("Next should stop on invalid physical step, at %d", s.Draft().CurrentStep)
	}
	if err := s.GoTo(10); err == nil {
		t.Error("GoTo(10) should fail")
	}
	if err := s.GoTo(StepGoal); err != nil || s.Draft().CurrentStep != StepGoal {
		t.Errorf("GoTo(goal) failed: %v", err)
	}
}

func TestSessionCompleteAndReset(t *testing.T) {
	store := NewMemoryStore()
	now := func() time.Time { return baseTime }
	s, _ := Open(store, "u1", now)
	*s.Draft() = *completeDraft(t)
	if err := s.Persist(); err != nil {
		t.Fatal(err)
	}

	targets, err := s.Complete()
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if targets.Macros.Kcal == 0 || !s.Draft().Completed {
		t.Errorf("Complete did not finish: %+v", targets)
	}
	if _, ok, _ := store.Load("u1"); ok {
		t.Error("completed draft should be cleared")
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.Draft().Completed || s.Draft().CurrentStep != StepWelcome {
		t.Errorf("Reset left state behind: %+v", s.Draft())
	}
}

func TestComputeRejectsImpossibleTape(t *testing.T) {
	d := completeDraft(t)
	waist, neck := 30.0, 40.0
	d.BodyFat = models.BodyFatInput{Method: models.BodyFatTape,
		Measurements: &models.TapeMeasurements{Waist: &waist, Neck: &neck}}

	if _, err := Compute(d, baseTime); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Compute with waist below neck = %v, want ErrIncomplete", err)
	}
}

func TestComputeAlternativeSplit(t *testing.T) {
	got, err := Compute(completeDraft(t), baseTime)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	alt := got.AlternativeSplit
	if alt.Kcal != got.Macros.Kcal {
		t.Errorf("alternative kcal = %v, want %v", alt.Kcal, got.Macros.Kcal)
	}
	for name, g := range map[string]float64{"protein": alt.ProteinG, "carbs": alt.CarbsG, "fat": alt.FatG} {
		if g <= 0 || g != float64(int(g/5))*5 {
			t.Errorf("%s = %v, want a positive multiple of 5", name, g)
		}
	}
	if alt.ProteinG < got.Macros.ProteinG-2.5 {
		t.Errorf("cut alternative protein %v dropped below %v", alt.ProteinG, got.Macros.ProteinG)
	}
	share := got.AlternativeShare
	if sum := share.Protein + share.Carbs + share.Fat; sum < 95 || sum > 105 {
		t.Errorf("alternative shares sum to %d, want about 100", sum)
	}
	if got.Activity != models.ActivityModerate || got.Gender != models.GenderMale || got.AgeYears != 25 {
		t.Errorf("profile = %s/%s/%d", got.Activity, got.Gender, got.AgeYears)
	}
}

func TestLegacyFromTargets(t *testing.T) {
	got, err := Compute(completeDraft(t), baseTime)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	r := LegacyFromTargets(got)
	if r.ActivityLevel != "moderately_active" {
		t.Errorf("ActivityLevel = %q, want moderately_active", r.ActivityLevel)
	}
	if r.Age != 25 || r.Height != 175 || r.Weight != 70 || r.Gender != models.GenderMale {
		t.Errorf("physical = %+v", r)
	}
	if r.GoalWeight != 65 || r.Goal != "cut" || !r.Completed {
		t.Errorf("goal = %+v", r)
	}
	if got.Timeline == nil || r.TimelineWeeks != got.Timeline.EstimatedWeeks {
		t.Errorf("TimelineWeeks = %d, want %+v", r.TimelineWeeks, got.Timeline)
	}
	if r.BodyFat == nil || *r.BodyFat != got.BodyFatPercent {
		t.Errorf("BodyFat = %v, want %v", r.BodyFat, got.BodyFatPercent)
	}

	back := Migrate(r)
	if back.Activity != models.ActivityModerate {
		t.Errorf("round trip activity = %q, want moderate", back.Activity)
	}
}
