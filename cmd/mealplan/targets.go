// ABOUTME: CLI command for calculating calorie and macro targets in one shot.
// ABOUTME: Prints BMR, TDEE, body fat, macros, pace check and timeline.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/mealplan/internal/onboarding"
	"github.com/harperreed/mealplan/internal/storage"
)

var (
	targetsAnswers onboarding.Answers
	targetsSave    bool
	targetsBodyFat float64
	targetsVisual  int
	targetsWaist   float64
	targetsNeck    float64
	targetsHip     float64
)

var targetsCmd = &cobra.Command{
	Use:     "targets",
	Aliases: []string{"t"},
	Short:   "Calculate daily calorie and macro targets",
	Long: `Calculate daily calorie and macro targets from body stats and a goal.

BMR uses Mifflin-St Jeor, TDEE applies the activity multiplier, and the
calorie target is adjusted for the goal and weekly pace within safe limits.

ACTIVITY LEVELS:

  sedentary, light, moderate, very, extra
  (lightly_active, moderately_active, very_active, extra_active also accepted)

BODY FAT:

  --bodyfat 18                      Known percentage
  --visual 3                        Visual estimate index (1-5)
  --waist 85 --neck 38 [--hip 95]   Navy tape method (hip needed for women)
  Nothing given                     Estimated from BMI

EXAMPLES:

  mealplan targets --age 30 --height 178 --weight 82 --gender male \
    --activity moderate --goal cut --target-weight 76
  mealplan targets --age 30 --height 178 --weight 82 --gender male \
    --goal cut --target-weight 76 --weeks 12
  mealplan targets --age 28 --height 65 --height-unit in --weight 140 \
    --weight-unit lb --gender female --activity light --goal maintain --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := targetsAnswers
		flags := cmd.Flags()
		if flags.Changed("bodyfat") {
			v := targetsBodyFat
			a.BodyFat = &v
		}
		if flags.Changed("visual") {
			v := targetsVisual
			a.Visual = &v
		}
		if flags.Changed("waist") {
			v := targetsWaist
			a.Waist = &v
		}
		if flags.Changed("neck") {
			v := targetsNeck
			a.Neck = &v
		}
		if flags.Changed("hip") {
			v := targetsHip
			a.Hip = &v
		}

		t, saved, err := svc.CalculateTargets(a, targetsSave)
		if err != nil {
			return fmt.Errorf("failed to calculate targets: %w", err)
		}

		printTargets(t)
		if saved != nil {
			printSaved(saved)
		}
		return nil
	},
}

func printTargets(t *onboarding.Targets) {
	faint := color.New(color.Faint)

	color.Green("✓ %d kcal/day", t.CalorieTarget)
	fmt.Printf("  Protein %s  Carbs %s  Fat %s\n",
		color.New(color.Bold).Sprintf("%.0fg", t.Macros.ProteinG),
		color.New(color.Bold).Sprintf("%.0fg", t.Macros.CarbsG),
		color.New(color.Bold).Sprintf("%.0fg", t.Macros.FatG))
	fmt.Printf("  %s\n", faint.Sprintf("%d%% / %d%% / %d%% of calories",
		t.Percentages.Protein, t.Percentages.Carbs, t.Percentages.Fat))
	if alt := t.AlternativeSplit; alt != t.Macros && !alt.IsZero() {
		fmt.Printf("  %s\n", faint.Sprintf("Alternative %s split: P %.0fg  C %.0fg  F %.0fg (%d%% / %d%% / %d%%)",
			t.Goal, alt.ProteinG, alt.CarbsG, alt.FatG,
			t.AlternativeShare.Protein, t.AlternativeShare.Carbs, t.AlternativeShare.Fat))
	}
	fmt.Println()
	fmt.Printf("  BMR        %d kcal\n", t.BMR)
	fmt.Printf("  TDEE       %d kcal\n", t.TDEE)
	fmt.Printf("  Body fat   %.1f%%", t.BodyFatPercent)
	if t.LeanBodyMassKg > 0 {
		fmt.Printf(" (lean mass %.1f kg)", t.LeanBodyMassKg)
	}
	fmt.Println()
	fmt.Printf("  Fiber      %dg\n", t.FiberG)
	fmt.Printf("  Water      %d ml\n", t.WaterMl)

	if t.Timeline != nil {
		fmt.Printf("  Timeline   %d weeks (around %s)\n",
			t.Timeline.EstimatedWeeks, t.Timeline.FinishDate.Format("2006-01-02"))
	}
	if !t.Pace.IsValid {
		color.Yellow("⚠ %s", t.Pace.Message)
	}
}

func printSaved(saved *storage.SavedTargets) {
	color.Green("✓ Saved targets")
	fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(saved.ID)))
}

func init() {
	f := targetsCmd.Flags()
	f.IntVar(&targetsAnswers.Age, "age", 0, "age in years")
	f.Float64Var(&targetsAnswers.Height, "height", 0, "height")
	f.StringVar(&targetsAnswers.HeightUnit, "height-unit", "cm", "height unit (cm or in)")
	f.Float64Var(&targetsAnswers.Weight, "weight", 0, "weight")
	f.StringVar(&targetsAnswers.WeightUnit, "weight-unit", "kg", "weight unit (kg or lb)")
	f.StringVar(&targetsAnswers.Gender, "gender", "", "male or female")
	f.StringVar(&targetsAnswers.Activity, "activity", "moderate", "activity level")
	f.StringVar(&targetsAnswers.Goal, "goal", "maintain", "cut, maintain or bulk")
	f.Float64Var(&targetsAnswers.PaceKg, "pace", 0, "weekly weight change in kg (default: recommended)")
	f.Float64Var(&targetsAnswers.TargetWeight, "target-weight", 0, "target weight in kg")
	f.IntVar(&targetsAnswers.TimelineWeeks, "weeks", 0, "weeks to reach the target weight (sets the pace when --pace is not given)")
	f.StringVar(&targetsAnswers.BodyFatMethod, "bodyfat-method", "", "visual, tape, known or unknown (inferred by default)")
	f.Float64Var(&targetsBodyFat, "bodyfat", 0, "known body fat percent")
	f.IntVar(&targetsVisual, "visual", 0, "visual body fat index (1-5)")
	f.Float64Var(&targetsWaist, "waist", 0, "waist circumference in cm")
	f.Float64Var(&targetsNeck, "neck", 0, "neck circumference in cm")
	f.Float64Var(&targetsHip, "hip", 0, "hip circumference in cm")
	f.BoolVar(&targetsSave, "save", false, "save as the latest targets")
	rootCmd.AddCommand(targetsCmd)
}
