// ABOUTME: CLI commands for step-by-step onboarding backed by Charm KV drafts.
// ABOUTME: Supports show, set, next, back, goto, compute, and reset.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/mealplan/internal/charm"
	"github.com/harperreed/mealplan/internal/onboarding"
)

// openDraftStore returns the store onboarding drafts are kept in.
var openDraftStore = func() (onboarding.DraftStore, error) {
	return charm.InitClient()
}

var stepNames = map[int]string{
	onboarding.StepWelcome:  "welcome",
	onboarding.StepPhysical: "physical stats",
	onboarding.StepActivity: "activity",
	onboarding.StepBodyFat:  "body fat",
	onboarding.StepGoal:     "goal",
	onboarding.StepPlan:     "target and pace",
	onboarding.StepTimeline: "timeline",
	onboarding.StepMacros:   "macros",
	onboarding.StepSummary:  "summary",
}

var onboardSave bool

var onboardCmd = &cobra.Command{
	Use:     "onboard",
	Aliases: []string{"o"},
	Short:   "Answer onboarding questions one at a time",
	Long: `Walk through onboarding one answer at a time.

Progress is stored as a draft in Charm KV and synced across devices.
Drafts untouched for 24 hours are discarded.

STEPS:

  1 welcome, 2 physical stats, 3 activity, 4 body fat, 5 goal,
  6 target and pace, 7 timeline, 8 macros, 9 summary

FIELDS:

  age, height, height_unit, weight, weight_unit, gender, activity,
  bodyfat_method, bodyfat, visual, waist, neck, hip, goal,
  target_weight, pace

EXAMPLES:

  mealplan onboard set age 30
  mealplan onboard set gender female
  mealplan onboard next
  mealplan onboard goto goal
  mealplan onboard show
  mealplan onboard compute --save`,
}

var onboardShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		printDraft(sess.Draft())
		return nil
	},
}

var onboardSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set one onboarding answer",
	Long: `Set one onboarding answer and save the draft.

Valid fields: ` + strings.Join(onboarding.Fields, ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := sess.Set(args[0], args[1]); err != nil {
			return err
		}
		color.Green("✓ Set %s = %s", args[0], args[1])
		return nil
	},
}

var onboardNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Advance to the next step",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		v, err := sess.Next()
		if err != nil {
			return err
		}
		if !v.Valid {
			color.Yellow("⚠ %s", v.Message)
			return nil
		}
		step := sess.Draft().CurrentStep
		color.Green("✓ Step %d: %s", step, stepNames[step])
		return nil
	},
}

var onboardBackCmd = &cobra.Command{
	Use:   "back",
	Short: "Go back one step",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := sess.Previous(); err != nil {
			return err
		}
		step := sess.Draft().CurrentStep
		fmt.Printf("Step %d: %s\n", step, stepNames[step])
		return nil
	},
}

var onboardGotoCmd = &cobra.Command{
	Use:   "goto <step>",
	Short: "Jump to a step by number or name",
	Long: `Jump to a step by number (1-9) or by name, e.g. "body fat" or goal.

Answers already given are kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step, err := parseStep(strings.Join(args, " "))
		if err != nil {
			return err
		}
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := sess.GoTo(step); err != nil {
			return err
		}
		fmt.Printf("Step %d: %s\n", step, stepNames[step])
		return nil
	},
}

// parseStep accepts a step number or one of stepNames.
func parseStep(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	for step, name := range stepNames {
		if name == s {
			return step, nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", s)
}

var onboardComputeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute targets from the draft",
	Long: `Compute calorie and macro targets from the draft answers.

The draft is cleared once targets are computed. Use --save to keep the
targets as the default for 'mealplan plan generate'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		t, err := sess.Complete()
		if err != nil {
			return fmt.Errorf("failed to compute targets: %w", err)
		}

		printTargets(t)
		if onboardSave {
			saved, err := svc.SaveTargets(t)
			if err != nil {
				return fmt.Errorf("failed to save targets: %w", err)
			}
			printSaved(saved)
		}
		return nil
	},
}

var onboardResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		if err := sess.Reset(); err != nil {
			return err
		}
		color.Yellow("✗ Onboarding draft discarded")
		return nil
	},
}

func openSession() (*onboarding.Session, error) {
	store, err := openDraftStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open draft store: %w", err)
	}
	return onboarding.Open(store, cfg.GetUserID(), nil)
}

func printDraft(d *onboarding.Draft) {
	faint := color.New(color.Faint)
	p := d.Physical

	fmt.Printf("Step %d of %d: %s\n", d.CurrentStep, onboarding.StepSummary, stepNames[d.CurrentStep])
	if !d.UpdatedAt.IsZero() {
		fmt.Printf("  %s\n", faint.Sprintf("updated %s", d.UpdatedAt.Format("2006-01-02 15:04")))
	}
	fmt.Println()

	row := func(label, value string) {
		if value == "" {
			value = faint.Sprint("-")
		}
		fmt.Printf("  %s %s\n", padRight(label, 14), value)
	}
	row("age", intOrEmpty(p.AgeYears))
	row("height", measure(p.Height.Value, string(p.Height.Unit)))
	row("weight", measure(p.Weight.Value, string(p.Weight.Unit)))
	row("gender", string(p.Gender))
	row("activity", string(d.Activity))
	row("body fat", bodyFatSummary(d))
	row("goal", string(d.Goal))
	row("target weight", measure(d.Plan.TargetWeightKg, "kg"))
	row("pace", measure(d.Plan.PaceKgPerWeek, "kg/week"))

	if v := onboarding.ValidateStep(d.CurrentStep, d); !v.Valid {
		fmt.Println()
		color.Yellow("⚠ %s", v.Message)
	}
}

func bodyFatSummary(d *onboarding.Draft) string {
	bf := d.BodyFat
	switch {
	case bf.Percent != nil:
		return fmt.Sprintf("%s %.1f%%", bf.Method, *bf.Percent)
	case bf.VisualIndex != nil:
		return fmt.Sprintf("%s #%d", bf.Method, *bf.VisualIndex)
	case bf.Measurements != nil && bf.Measurements.Waist != nil:
		return fmt.Sprintf("%s waist %g cm", bf.Method, *bf.Measurements.Waist)
	}
	return string(bf.Method)
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprint(n)
}

func measure(v float64, unit string) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%g %s", v, unit)
}

func init() {
	onboardComputeCmd.Flags().BoolVar(&onboardSave, "save", false, "save as the latest targets")

	onboardCmd.AddCommand(onboardShowCmd)
	onboardCmd.AddCommand(onboardSetCmd)
	onboardCmd.AddCommand(onboardNextCmd)
	onboardCmd.AddCommand(onboardBackCmd)
	onboardCmd.AddCommand(onboardGotoCmd)
	onboardCmd.AddCommand(onboardComputeCmd)
	onboardCmd.AddCommand(onboardResetCmd)
	rootCmd.AddCommand(onboardCmd)
}
