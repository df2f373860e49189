// ABOUTME: CLI commands for generating and managing meal plans.
// ABOUTME: Supports generate, list, show, regenerate, and delete.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/planner"
	"github.com/harperreed/mealplan/internal/service"
	"github.com/harperreed/mealplan/internal/storage"
)

var (
	planTarget models.MacroGoals
	planPreset string
	planLimit  int
)

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"p"},
	Short:   "Generate and manage meal plans",
	Long: `Generate full-day meal plans and manage saved plans.

A plan picks one breakfast, lunch and dinner (plus a snack when the
distribution has a snack share) from the meal catalog, choosing the meals
whose macros best fit each meal's share of the daily target.

COMMANDS:

  generate     Build a new plan (uses saved targets by default)
  list         List recent plans
  show         Show one plan with its meals
  regenerate   Swap one meal for the best alternative
  delete       Delete a plan and its shopping list`,
}

var planGenerateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen", "g"},
	Short:   "Generate a meal plan",
	Long: `Generate a meal plan for a daily macro target.

With no macro flags the latest saved targets are used. Plans with a
macro accuracy under 85% are kept but flagged with a warning.

PRESETS:

  standard       25/35/35/5   (breakfast/lunch/dinner/snacks)
  front-loaded   35/30/25/10
  dinner-focus   20/30/45/5
  frequent       20/25/25/30

EXAMPLES:

  mealplan plan generate
  mealplan plan generate --kcal 2200 --protein 165 --carbs 220 --fat 73
  mealplan plan generate --preset dinner-focus`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var dist *models.MealDistribution
		if planPreset != "" {
			p, ok := planner.FindPreset(planPreset)
			if !ok {
				return fmt.Errorf("unknown distribution preset: %s", planPreset)
			}
			dist = &p.Distribution
		}

		result, err := svc.GeneratePlan(cmd.Context(), planTarget, dist)
		if errors.Is(err, service.ErrNoTargets) {
			return fmt.Errorf("%w\n\nRun 'mealplan targets ... --save' or pass --kcal/--protein/--carbs/--fat", err)
		}
		if err != nil {
			return fmt.Errorf("failed to generate plan: %w", err)
		}

		if !result.Success {
			for _, e := range result.Errors {
				color.Red("✗ %s", e)
			}
			return errors.New("plan generation failed")
		}

		plan := result.MealPlan.Snapshot()
		color.Green("✓ Generated plan with %d meals (%d%% accuracy)", len(plan.Meals), result.Accuracy)
		fmt.Printf("  %s\n\n", color.New(color.Faint).Sprint(shortID(plan.ID)))
		printPlanMeals(plan)
		for _, w := range result.Warnings {
			color.Yellow("⚠ %s", w)
		}
		if result.ShoppingList != nil {
			fmt.Printf("\nShopping list: %d items, ~%d₮ (mealplan shop %s)\n",
				result.ShoppingList.TotalItems, result.ShoppingList.EstimatedCost, shortID(plan.ID))
		}
		return nil
	},
}

var planListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List recent meal plans",
	Long: `List recent meal plans, newest first.

Each line shows: ID  GENERATED  KCAL  ACCURACY  MEALS

The ID is an 8-character prefix you can use with show, regenerate, shop
and delete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := svc.ListPlans(planLimit)
		if err != nil {
			return fmt.Errorf("failed to list plans: %w", err)
		}

		if len(plans) == 0 {
			fmt.Println("No meal plans found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, p := range plans {
			snap := p.Snapshot()
			names := make([]string, 0, len(snap.Meals))
			for _, m := range snap.Meals {
				names = append(names, m.Name)
			}
			fmt.Printf("%s %s %s %s %s\n",
				faint.Sprint(shortID(snap.ID)),
				faint.Sprint(snap.GeneratedAt.Format("2006-01-02 15:04")),
				padRight(fmt.Sprintf("%.0f kcal", snap.TotalMacros.Kcal), 10),
				padRight(fmt.Sprintf("%d%%", snap.MacroAccuracy), 5),
				truncate(strings.Join(names, ", "), 50))
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a meal plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("meal plan not found: %s", args[0])
		}

		snap := p.Snapshot()
		faint := color.New(color.Faint)
		fmt.Printf("Plan %s\n", color.New(color.Bold).Sprint(shortID(snap.ID)))
		fmt.Printf("  %s\n", faint.Sprintf("generated %s, %s", snap.GeneratedAt.Format("2006-01-02 15:04"), snap.Status))
		t := snap.TargetMacros
		fmt.Printf("  Target %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat\n\n", t.Kcal, t.ProteinG, t.CarbsG, t.FatG)
		printPlanMeals(snap)
		fmt.Printf("\nAccuracy: %d%%\n", snap.MacroAccuracy)
		return nil
	},
}

var planRegenerateCmd = &cobra.Command{
	Use:     "regenerate <plan-id> <meal-id>",
	Aliases: []string{"regen", "swap"},
	Short:   "Swap one meal in a plan",
	Long: `Replace one meal with the best-fitting alternative of the same type.

The plan totals and accuracy are recomputed and the shopping list is rebuilt.
Meal IDs are shown by 'mealplan plan show'.

EXAMPLES:

  mealplan plan regenerate 01JD3K2M breakfast-3`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := repo.GetPlan(args[0])
		if err != nil {
			return fmt.Errorf("meal plan not found: %s", args[0])
		}
		old := before.Snapshot()

		plan, list, err := svc.RegenerateMeal(cmd.Context(), old.ID, args[1])
		if err != nil {
			return fmt.Errorf("failed to regenerate meal: %w", err)
		}

		snap := plan.Snapshot()
		for i, m := range snap.Meals {
			if i < len(old.Meals) && old.Meals[i].ID == args[1] {
				color.Green("✓ Swapped %s for %s", old.Meals[i].Name, m.Name)
			}
		}
		fmt.Printf("  Accuracy %d%% → %d%%\n", old.MacroAccuracy, snap.MacroAccuracy)
		if list != nil {
			fmt.Printf("  Shopping list rebuilt: %d items, ~%d₮\n", list.TotalItems, list.EstimatedCost)
		}
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a meal plan",
	Long: `Delete a meal plan and its shopping list by ID or ID prefix.

CAUTION:

  This permanently deletes the plan. There is no undo.
  If the prefix matches multiple plans, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetPlan(args[0])
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("meal plan not found: %s", args[0])
		}
		if err != nil {
			return err
		}

		if err := repo.DeletePlan(p.ID); err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}

		snap := p.Snapshot()
		color.Yellow("✗ Deleted plan")
		fmt.Printf("  %s %.0f kcal, %d meals\n",
			color.New(color.Faint).Sprint(shortID(snap.ID)), snap.TotalMacros.Kcal, len(snap.Meals))
		return nil
	},
}

func printPlanMeals(p *models.MealPlan) {
	faint := color.New(color.Faint)
	for _, m := range p.Meals {
		fmt.Printf("  %s %s %s\n",
			padRight(string(m.Category), 10),
			m.Name,
			faint.Sprintf("[%s]", m.ID))
		fmt.Printf("  %s %s\n", padRight("", 10),
			faint.Sprintf("%.0f kcal  P %.0fg  C %.0fg  F %.0fg",
				m.Macros.Kcal, m.Macros.ProteinG, m.Macros.CarbsG, m.Macros.FatG))
	}
	t := p.TotalMacros
	fmt.Printf("  %s %.0f kcal  P %.0fg  C %.0fg  F %.0fg\n", padRight("total", 10), t.Kcal, t.ProteinG, t.CarbsG, t.FatG)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

func init() {
	f := planGenerateCmd.Flags()
	f.Float64Var(&planTarget.Kcal, "kcal", 0, "daily calories")
	f.Float64Var(&planTarget.ProteinG, "protein", 0, "daily protein in grams")
	f.Float64Var(&planTarget.CarbsG, "carbs", 0, "daily carbs in grams")
	f.Float64Var(&planTarget.FatG, "fat", 0, "daily fat in grams")
	f.StringVar(&planPreset, "preset", "", "meal distribution preset")

	planListCmd.Flags().IntVarP(&planLimit, "limit", "n", 20, "max number of results")

	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planRegenerateCmd)
	planCmd.AddCommand(planDeleteCmd)
	rootCmd.AddCommand(planCmd)
}
