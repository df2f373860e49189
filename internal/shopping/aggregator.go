// ABOUTME: Builds a deduplicated shopping list from every ingredient in a meal plan.
// ABOUTME: New ingredients are matched against the ingredient catalog for price and aisle.
package shopping

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/matcher"
	"github.com/harperreed/mealplan/internal/models"
)

// NoteThreshold is the confidence below which a matched item gets a note.
const NoteThreshold = 0.7

// Aggregator merges plan ingredients into a shopping list.
type Aggregator struct {
	matcher *matcher.Matcher
	catalog []models.IngredientItem
	logger  *zap.Logger
}

// New creates an Aggregator over an ingredient catalog. m and logger may be nil.
func New(m *matcher.Matcher, catalog []models.IngredientItem, logger *zap.Logger) *Aggregator {
	if m == nil {
		m = matcher.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{matcher: m, catalog: catalog, logger: logger}
}

// Build walks every ingredient of every meal. Repeated names add their
// amounts to the first entry; units are assumed to agree.
func (a *Aggregator) Build(plan *models.MealPlan) *models.ShoppingList {
	snap := plan.Snapshot()
	list := models.NewShoppingList(snap.UserID, snap.ID)

	index := make(map[string]int)
	ids := make(map[string]bool)
	for _, meal := range snap.Meals {
		for _, ing := range meal.Ingredients {
			key := strings.ToLower(strings.TrimSpace(ing.Name))
			if i, ok := index[key]; ok {
				list.Items[i].Amount += ing.Amount
				continue
			}

			item := NewItem(ing, a.matcher.FindMatch(ing.Name, a.catalog))
			item.ID = uniqueItemID(item.ID, meal.ID, ing.ID, ids)
			ids[item.ID] = true

			index[key] = len(list.Items)
			list.Items = append(list.Items, item)
		}
	}

	list.Recount()
	a.logger.Debug("built shopping list",
		zap.String("plan_id", snap.ID),
		zap.Int("items", list.TotalItems),
		zap.Int("estimated_cost", list.EstimatedCost),
	)
	return list
}

// NewItem creates a shopping list entry for an ingredient. Catalog category,
// price and image are used when the match is at least a partial match.
func NewItem(ing models.MealIngredient, match models.IngredientMatch) models.ShoppingListItem {
	id := ing.ID
	if id == "" {
		id = uuid.New().String()
	}

	item := models.ShoppingListItem{
		ID:       "shopping-" + id,
		Name:     ing.Name,
		Amount:   ing.Amount,
		Unit:     ing.Unit,
		Category: recipeCategory(ing.Category),
	}

	if match.Item != nil && match.Confidence >= matcher.PartialConfidence {
		item.Category = matcher.MapToShoppingCategory(match.Item.CategoryPath)
		if price, ok := matcher.ParsePrice(match.Item.Price); ok {
			item.Price = &price
		}
		item.ImageURL = match.Item.ImageURL
	}

	if match.Confidence > 0 && match.Confidence < NoteThreshold {
		name := "unknown"
		if match.Item != nil {
			name = match.Item.Name
		}
		item.Notes = fmt.Sprintf("auto-matched: low confidence (%s)", name)
	}

	return item
}

// uniqueItemID keeps id unless another item in the list already has it.
// Catalogs may reuse ingredient IDs across meals, so a clash is qualified
// with the meal ID and then falls back to a random ID.
func uniqueItemID(id, mealID, ingID string, used map[string]bool) string {
	if !used[id] {
		return id
	}
	if qualified := "shopping-" + mealID + "-" + ingID; !used[qualified] {
		return qualified
	}
	return "shopping-" + uuid.New().String()
}

func recipeCategory(c string) models.ShoppingCategory {
	switch cat := models.ShoppingCategory(c); cat {
	case models.ShopProtein, models.ShopVegetables, models.ShopCarbs,
		models.ShopDairy, models.ShopFats, models.ShopSpices:
		return cat
	}
	return models.ShopOther
}
