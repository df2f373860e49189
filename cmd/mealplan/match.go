// ABOUTME: CLI command for matching a recipe ingredient to the store catalog.
// ABOUTME: Shows the best item, its confidence, and why it matched.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <ingredient>",
	Short: "Match an ingredient to the store catalog",
	Long: `Find the best ingredient catalog entry for a recipe ingredient name.

Matching normalizes the name (lowercase, preparation words and quantities
removed) and scores catalog items by word overlap. Scores of 80% and up are
high similarity, 50% and up partial, anything lower a weak match.

EXAMPLES:

  mealplan match "үхрийн мах"
  mealplan match "chicken breast"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		m, err := svc.MatchIngredient(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("failed to match ingredient: %w", err)
		}

		if m.Item == nil {
			color.Yellow("No match for %q", name)
			return nil
		}

		faint := color.New(color.Faint)
		color.Green("✓ %s (%.0f%%)", m.Item.Name, m.Confidence*100)
		if len(m.Item.CategoryPath) > 0 {
			fmt.Printf("  %s\n", faint.Sprint(strings.Join(m.Item.CategoryPath, " › ")))
		}
		if m.Item.Price != "" {
			fmt.Printf("  Price %s₮\n", m.Item.Price)
		}
		for _, r := range m.Reasons {
			fmt.Printf("  %s\n", faint.Sprint("· "+r))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
