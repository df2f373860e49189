// ABOUTME: Tests for shopping list aggregation and catalog enrichment.
// ABOUTME: Covers merging, price adoption, low-confidence notes and totals.
package shopping

import (
	"strings"
	"testing"

	"github.com/harperreed/mealplan/internal/matcher"
	"github.com/harperreed/mealplan/internal/models"
)

func testCatalog() []models.IngredientItem {
	return []models.IngredientItem{
		{ID: "c1", Name: "Өндөг", CategoryPath: []string{"Мах, өндөг"}, Price: "450₮", ImageURL: "https://img/egg.jpg"},
		{ID: "c2", Name: "Будаа цагаан", CategoryPath: []string{"Гурил, будаа"}, Price: "2,500₮"},
		{ID: "c3", Name: "Үхрийн махан цул", CategoryPath: []string{"Мах"}, Price: "18000₮"},
	}
}

func testPlan() *models.MealPlan {
	plan := models.NewMealPlan("u1", models.MacroGoals{Kcal: 2000}, models.DefaultDistribution())
	plan.SetMeals([]models.GeneratedMeal{
		{
			ID: "m1", Category: models.CategoryBreakfast,
			Ingredients: []models.MealIngredient{
				{ID: "i1", Name: "Өндөг", Amount: 2, Unit: "ширхэг", Category: "protein"},
				{ID: "i2", Name: "Будаа", Amount: 100, Unit: "г", Category: "carbs"},
			},
		},
		{
			ID: "m2", Category: models.CategoryLunch,
			Ingredients: []models.MealIngredient{
				{ID: "i3", Name: " өндөг ", Amount: 1, Unit: "ширхэг", Category: "protein"},
				{ID: "i4", Name: "Үхрийн мах шөл", Amount: 1, Unit: "аяга", Category: "protein"},
				{ID: "i5", Name: "Давс", Amount: 5, Unit: "г", Category: "seasoning"},
			},
		},
	}, func(models.MacroGoals, models.MacroGoals) int { return 0 })
	return plan
}

func findItem(t *testing.T, list *models.ShoppingList, id string) models.ShoppingListItem {
	t.Helper()
	for _, it := range list.Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not found in %+v", id, list.Items)
	return models.ShoppingListItem{}
}

func TestBuildMergesByNormalizedName(t *testing.T) {
	list := New(nil, testCatalog(), nil).Build(testPlan())

	if list.TotalItems != 4 {
		t.Fatalf("TotalItems = %d, want 4", list.TotalItems)
	}
	egg := findItem(t, list, "shopping-i1")
	if egg.Amount != 3 {
		t.Errorf("egg amount = %v, want 3", egg.Amount)
	}
	if list.Items[0].ID != "shopping-i1" || list.Items[3].ID != "shopping-i5" {
		t.Errorf("items should keep first-seen order, got %v", list.Items)
	}
}

func TestBuildAdoptsCatalogData(t *testing.T) {
	list := New(nil, testCatalog(), nil).Build(testPlan())

	egg := findItem(t, list, "shopping-i1")
	if egg.Category != models.ShopProtein {
		t.Errorf("egg category = %s, want protein", egg.Category)
	}
	if egg.Price == nil || *egg.Price != 450 {
		t.Errorf("egg price = %v, want 450", egg.Price)
	}
	if egg.ImageURL != "https://img/egg.jpg" {
		t.Errorf("egg image = %q", egg.ImageURL)
	}
	if egg.Notes != "" {
		t.Errorf("exact match should have no note, got %q", egg.Notes)
	}

	rice := findItem(t, list, "shopping-i2")
	if rice.Category != models.ShopCarbs || rice.Price == nil || *rice.Price != 2500 {
		t.Errorf("rice = %+v", rice)
	}
}

func TestBuildLowConfidence(t *testing.T) {
	list := New(nil, testCatalog(), nil).Build(testPlan())

	// "үхрийн мах шөл" shares one of three words with the beef entry.
	soup := findItem(t, list, "shopping-i4")
	if soup.Price != nil {
		t.Errorf("low confidence match should not adopt a price, got %v", *soup.Price)
	}
	if soup.Category != models.ShopProtein {
		t.Errorf("low confidence match should keep the recipe category, got %s", soup.Category)
	}
	if !strings.Contains(soup.Notes, "low confidence") || !strings.Contains(soup.Notes, "Үхрийн махан цул") {
		t.Errorf("expected low confidence note, got %q", soup.Notes)
	}

	salt := findItem(t, list, "shopping-i5")
	if salt.Category != models.ShopOther {
		t.Errorf("unknown recipe category should map to other, got %s", salt.Category)
	}
	if salt.Notes != "" || salt.Price != nil {
		t.Errorf("unmatched item should have no note or price: %+v", salt)
	}
}

func TestBuildTotals(t *testing.T) {
	list := New(matcher.New(nil), testCatalog(), nil).Build(testPlan())

	if list.EstimatedCost != 450+2500 {
		t.Errorf("EstimatedCost = %d, want %d", list.EstimatedCost, 450+2500)
	}
	if list.Completed {
		t.Error("new list should not be completed")
	}
	if list.MealPlanID == "" || list.UserID != "u1" {
		t.Errorf("list ownership not set: %+v", list)
	}
}

func TestBuildWithoutCatalog(t *testing.T) {
	list := New(nil, nil, nil).Build(testPlan())

	if list.EstimatedCost != 0 {
		t.Errorf("EstimatedCost = %d, want 0", list.EstimatedCost)
	}
	for _, it := range list.Items {
		if it.Price != nil || it.Notes != "" {
			t.Errorf("item without catalog should be bare: %+v", it)
		}
	}
}

func TestNewItemGeneratesID(t *testing.T) {
	item := NewItem(models.MealIngredient{Name: "Сүү", Amount: 1, Unit: "л"}, models.IngredientMatch{})
	if !strings.HasPrefix(item.ID, "shopping-") || len(item.ID) <= len("shopping-") {
		t.Errorf("ID = %q, want shopping-<uuid>", item.ID)
	}
}

func TestBuildKeepsItemIDsUniqueWhenIngredientIDsRepeat(t *testing.T) {
	plan := models.NewMealPlan("u1", models.MacroGoals{Kcal: 2000}, models.DefaultDistribution())
	plan.SetMeals([]models.GeneratedMeal{
		{ID: "m1", Category: models.CategoryBreakfast,
			Ingredients: []models.MealIngredient{{ID: "1", Name: "овъёос", Amount: 80, Unit: "г"}}},
		{ID: "m2", Category: models.CategoryLunch,
			Ingredients: []models.MealIngredient{{ID: "1", Name: "үхрийн мах", Amount: 150, Unit: "г"}}},
		{ID: "m3", Category: models.CategoryDinner,
			Ingredients: []models.MealIngredient{{ID: "1", Name: "сүү", Amount: 200, Unit: "мл"}}},
	}, func(models.MacroGoals, models.MacroGoals) int { return 0 })

	list := New(nil, nil, nil).Build(plan)
	if list.TotalItems != 3 {
		t.Fatalf("TotalItems = %d, want 3", list.TotalItems)
	}

	seen := make(map[string]bool)
	for _, it := range list.Items {
		if seen[it.ID] {
			t.Errorf("duplicate item ID %q", it.ID)
		}
		seen[it.ID] = true
	}
	if list.Items[0].ID != "shopping-1" {
		t.Errorf("first item ID = %q, want shopping-1", list.Items[0].ID)
	}
	if list.Items[1].ID != "shopping-m2-1" {
		t.Errorf("second item ID = %q, want shopping-m2-1", list.Items[1].ID)
	}
}

func TestUniqueItemID(t *testing.T) {
	used := map[string]bool{"shopping-1": true, "shopping-m1-1": true}

	tests := []struct {
		name string
		id   string
		meal string
		want string
	}{
		{"free", "shopping-2", "m1", "shopping-2"},
		{"qualified", "shopping-1", "m2", "shopping-m2-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uniqueItemID(tt.id, tt.meal, strings.TrimPrefix(tt.id, "shopping-"), used); got != tt.want {
				t.Errorf("uniqueItemID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}

	got := uniqueItemID("shopping-1", "m1", "1", used)
	if got == "shopping-1" || got == "shopping-m1-1" || !strings.HasPrefix(got, "shopping-") {
		t.Errorf("uniqueItemID fallback = %q, want a fresh shopping- ID", got)
	}
}
