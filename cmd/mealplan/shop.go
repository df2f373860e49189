// ABOUTME: CLI command for viewing and checking off a plan's shopping list.
// ABOUTME: Groups items by category with amounts and catalog prices.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/storage"
)

var (
	shopCheck   []string
	shopUncheck []string
)

var shopCategoryOrder = []models.ShoppingCategory{
	models.ShopProtein, models.ShopVegetables, models.ShopCarbs,
	models.ShopDairy, models.ShopFats, models.ShopSpices, models.ShopOther,
}

var shopCmd = &cobra.Command{
	Use:     "shop [plan-id]",
	Aliases: []string{"shopping"},
	Short:   "Show the shopping list for a plan",
	Long: `Show the shopping list for a meal plan, grouped by category.

With no plan ID the latest plan is used. Prices come from the ingredient
catalog and are estimates in tögrög (₮).

CHECKING ITEMS:

  mealplan shop 01JD3K2M --check shopping-buuz-3-ing-1
  mealplan shop 01JD3K2M --uncheck shopping-buuz-3-ing-1

  Item IDs are shown faint after each item. The list is marked complete
  once every item is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		planID := ""
		if len(args) == 1 {
			planID = args[0]
		} else {
			p, err := svc.LatestPlan()
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Println("No meal plans found.")
				return nil
			}
			if err != nil {
				return err
			}
			planID = p.Snapshot().ID
		}

		list, err := svc.ShoppingList(planID)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("shopping list not found for plan: %s", planID)
		}
		if err != nil {
			return err
		}

		for _, id := range shopCheck {
			if err := svc.CheckItem(planID, resolveItemID(list, id), true); err != nil {
				return fmt.Errorf("failed to check item: %w", err)
			}
		}
		for _, id := range shopUncheck {
			if err := svc.CheckItem(planID, resolveItemID(list, id), false); err != nil {
				return fmt.Errorf("failed to uncheck item: %w", err)
			}
		}
		if len(shopCheck)+len(shopUncheck) > 0 {
			if list, err = svc.ShoppingList(planID); err != nil {
				return err
			}
		}

		printShoppingList(list)
		return nil
	},
}

// resolveItemID accepts an item ID with or without its "shopping-" prefix.
func resolveItemID(list *models.ShoppingList, id string) string {
	for _, it := range list.Items {
		if it.ID == id || it.ID == "shopping-"+id {
			return it.ID
		}
	}
	return id
}

func printShoppingList(list *models.ShoppingList) {
	faint := color.New(color.Faint)

	byCategory := make(map[models.ShoppingCategory][]models.ShoppingListItem)
	for _, it := range list.Items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	fmt.Printf("Shopping list for plan %s\n", color.New(color.Bold).Sprint(shortID(list.MealPlanID)))
	for _, cat := range shopCategoryOrder {
		items := byCategory[cat]
		if len(items) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", color.New(color.Bold).Sprint(cat))
		for _, it := range items {
			box := "[ ]"
			if it.Checked {
				box = color.GreenString("[x]")
			}
			price := ""
			if it.Price != nil {
				price = faint.Sprintf(" %d₮", *it.Price)
			}
			fmt.Printf("  %s %s %s%s %s\n",
				box,
				padRight(it.Name, 24),
				fmt.Sprintf("%g %s", it.Amount, it.Unit),
				price,
				faint.Sprint(it.ID))
		}
	}

	fmt.Println()
	fmt.Printf("%d items, ~%d₮\n", list.TotalItems, list.EstimatedCost)
	if list.Completed {
		color.Green("✓ All items checked")
	}
}

func init() {
	shopCmd.Flags().StringSliceVar(&shopCheck, "check", nil, "mark item IDs as bought")
	shopCmd.Flags().StringSliceVar(&shopUncheck, "uncheck", nil, "mark item IDs as not bought")
	rootCmd.AddCommand(shopCmd)
}
