// ABOUTME: CLI commands for building and inspecting the meal catalog.
// ABOUTME: Converts recipe sheets to catalog files and lists meals and presets.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/mealplan/internal/catalog"
	"github.com/harperreed/mealplan/internal/config"
	"github.com/harperreed/mealplan/internal/logger"
	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/planner"
)

var (
	catalogOutput   string
	catalogUse      bool
	catalogCategory string
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"c"},
	Short:   "Build and inspect the meal catalog",
	Long: `Build and inspect the meal catalog used for plan generation.

COMMANDS:

  import-meals   Convert a recipe sheet (CSV) into a catalog file
  meals          List meals in the configured catalog
  presets        List meal distribution presets

RECIPE SHEET COLUMNS:

  Хоолны Төрөл      meal type (өглөө/breakfast, өдөр/lunch, орой/dinner, ...)
  Жорын Нэр         recipe name (required)
  Орц               ingredients, separated by commas, semicolons or lines
  Заавар            numbered instructions
  Макро (ойролцоо)  free-text macros, e.g. "450 ккал, 30г уураг"`,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import-meals <csv>",
	Short: "Convert a recipe sheet into a meal catalog",
	Long: `Convert a recipe sheet exported as CSV into a .json or .yaml meal catalog.

Rows without a name, without ingredients, or with neither calories nor
protein are skipped.

EXAMPLES:

  mealplan catalog import-meals recipes.csv -o ~/.config/mealplan/meals.json
  mealplan catalog import-meals recipes.csv -o meals.yaml --use`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open recipe sheet: %w", err)
		}
		defer f.Close()

		rows, err := catalog.ReadMealRows(f)
		if err != nil {
			return err
		}
		meals := catalog.ParseMealRows(rows, logger.L())
		if len(meals) == 0 {
			return fmt.Errorf("no usable meals in %s", args[0])
		}

		out := config.ExpandPath(catalogOutput)
		if err := catalog.WriteMeals(out, meals); err != nil {
			return err
		}
		color.Green("✓ Wrote %d of %d recipes to %s", len(meals), len(rows), out)
		printCategoryCounts(meals)

		if catalogUse {
			cfg.MealCatalog = out
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Set meal_catalog in %s", config.GetConfigPath())
		}
		return nil
	},
}

var catalogMealsCmd = &cobra.Command{
	Use:     "meals",
	Aliases: []string{"ls"},
	Short:   "List meals in the configured catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogCategory != "" && !models.IsValidMealCategory(catalogCategory) {
			return fmt.Errorf("unknown meal category: %s", catalogCategory)
		}

		provider, err := cfg.MealProvider(logger.L())
		if err != nil {
			return err
		}
		meals, err := provider.Load(cmd.Context())
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		shown := 0
		for _, m := range meals {
			if catalogCategory != "" && string(m.Category) != catalogCategory {
				continue
			}
			fmt.Printf("%s %s %s %s\n",
				padRight(string(m.Category), 10),
				padRight(truncate(m.Name, 32), 32),
				faint.Sprintf("%4.0f kcal P%3.0f C%3.0f F%3.0f",
					m.Macros.Kcal, m.Macros.ProteinG, m.Macros.CarbsG, m.Macros.FatG),
				faint.Sprint(m.ID))
			shown++
		}
		if shown == 0 {
			fmt.Println("No meals found.")
		}
		return nil
	},
}

var catalogPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List meal distribution presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint)
		for _, p := range planner.DistributionPresets() {
			d := p.Distribution
			fmt.Printf("%s %s %s\n",
				padRight(p.Key, 14),
				padRight(fmt.Sprintf("%.0f/%.0f/%.0f/%.0f", d.Breakfast, d.Lunch, d.Dinner, d.Snacks), 12),
				faint.Sprint(p.Description))
		}
		return nil
	},
}

func printCategoryCounts(meals []models.GeneratedMeal) {
	counts := make(map[models.MealCategory]int)
	for _, m := range meals {
		counts[m.Category]++
	}
	for _, c := range models.AllMealCategories {
		fmt.Printf("  %s %d\n", padRight(string(c), 10), counts[c])
	}
}

func init() {
	catalogImportCmd.Flags().StringVarP(&catalogOutput, "output", "o", "meals.json", "catalog file (.json or .yaml)")
	catalogImportCmd.Flags().BoolVar(&catalogUse, "use", false, "set the output as meal_catalog in the config")
	catalogMealsCmd.Flags().StringVar(&catalogCategory, "category", "", "only show breakfast, lunch, dinner or snack")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogMealsCmd)
	catalogCmd.AddCommand(catalogPresetsCmd)
	rootCmd.AddCommand(catalogCmd)
}
