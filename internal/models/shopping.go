// ABOUTME: Ingredient catalog, match, and shopping list models.
// ABOUTME: Shopping lists are derived from a meal plan and priced from the catalog.
package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// ShoppingCategory groups shopping list items by aisle.
type ShoppingCategory string

const (
	ShopProtein    ShoppingCategory = "protein"
	ShopVegetables ShoppingCategory = "vegetables"
	ShopCarbs      ShoppingCategory = "carbs"
	ShopDairy      ShoppingCategory = "dairy"
	ShopFats       ShoppingCategory = "fats"
	ShopSpices     ShoppingCategory = "spices"
	ShopOther      ShoppingCategory = "other"
)

// IngredientItem is a priced, categorized product from the ingredient catalog.
type IngredientItem struct {
	ID           string   `json:"id" yaml:"id"`
	ItemCode     string   `json:"item_code,omitempty" yaml:"item_code,omitempty"`
	Name         string   `json:"name" yaml:"name"`
	Type         string   `json:"type,omitempty" yaml:"type,omitempty"`
	CategoryPath []string `json:"category_path" yaml:"category_path"`
	Price        string   `json:"price,omitempty" yaml:"price,omitempty"`
	IsPopular    bool     `json:"is_popular" yaml:"is_popular"`
	ImageURL     string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Calories     *float64 `json:"calories,omitempty" yaml:"calories,omitempty"`
	ProteinG     *float64 `json:"protein_g,omitempty" yaml:"protein_g,omitempty"`
	FatG         *float64 `json:"fat_g,omitempty" yaml:"fat_g,omitempty"`
	CarbsG       *float64 `json:"carbs_g,omitempty" yaml:"carbs_g,omitempty"`
	SugarG       *float64 `json:"sugar_g,omitempty" yaml:"sugar_g,omitempty"`
	FiberG       *float64 `json:"fiber_g,omitempty" yaml:"fiber_g,omitempty"`
	SodiumMg     *float64 `json:"sodium_mg,omitempty" yaml:"sodium_mg,omitempty"`
}

// IngredientMatch is the best catalog entry found for a recipe ingredient.
// Item is nil when Confidence is 0.
type IngredientMatch struct {
	Item       *IngredientItem `json:"item"`
	Confidence float64         `json:"confidence"`
	Reasons    []string        `json:"reasons"`
}

// ShoppingListItem is one deduplicated ingredient to buy.
type ShoppingListItem struct {
	ID       string           `json:"id" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	Amount   float64          `json:"amount" yaml:"amount"`
	Unit     string           `json:"unit" yaml:"unit"`
	Category ShoppingCategory `json:"category" yaml:"category"`
	Price    *int             `json:"price,omitempty" yaml:"price,omitempty"`
	ImageURL string           `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Notes    string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Checked  bool             `json:"checked" yaml:"checked"`
}

// ShoppingList is the aggregated list for one meal plan.
type ShoppingList struct {
	ID            string             `json:"id" yaml:"id"`
	UserID        string             `json:"user_id" yaml:"user_id"`
	MealPlanID    string             `json:"meal_plan_id" yaml:"meal_plan_id"`
	Items         []ShoppingListItem `json:"items" yaml:"items"`
	TotalItems    int                `json:"total_items" yaml:"total_items"`
	EstimatedCost int                `json:"estimated_cost" yaml:"estimated_cost"`
	CreatedAt     time.Time          `json:"created_at" yaml:"created_at"`
	Completed     bool               `json:"completed" yaml:"completed"`
}

// NewShoppingList creates an empty list for a plan.
func NewShoppingList(userID, mealPlanID string) *ShoppingList {
	return &ShoppingList{
		ID:         ulid.Make().String(),
		UserID:     userID,
		MealPlanID: mealPlanID,
		Items:      []ShoppingListItem{},
		CreatedAt:  time.Now(),
	}
}

// Recount refreshes TotalItems, EstimatedCost, and Completed from Items.
func (l *ShoppingList) Recount() {
	l.TotalItems = len(l.Items)
	l.EstimatedCost = 0
	checked := 0
	for _, it := range l.Items {
		if it.Price != nil {
			l.EstimatedCost += *it.Price
		}
		if it.Checked {
			checked++
		}
	}
	l.Completed = l.TotalItems > 0 && checked == l.TotalItems
}
