// ABOUTME: Tests for meal plan snapshots and meal copies.
// ABOUTME: Ensures callers cannot reach a plan's meals through a snapshot.
package models

import "testing"

func testPlan() *MealPlan {
	p := NewMealPlan("u1", MacroGoals{Kcal: 500}, DefaultDistribution())
	p.SetMeals([]GeneratedMeal{{
		ID:           "b1",
		Name:         "Oats",
		Category:     CategoryBreakfast,
		Ingredients:  []MealIngredient{{ID: "1", Name: "Oats", Amount: 80, Unit: "g"}},
		Instructions: []string{"Boil milk", "Stir in oats"},
		Macros:       MacroGoals{Kcal: 500},
	}}, func(_, _ MacroGoals) int { return 100 })
	return p
}

func TestSnapshotDoesNotShareMealSlices(t *testing.T) {
	p := testPlan()

	snap := p.Snapshot()
	snap.Meals[0].Name = "Changed"
	snap.Meals[0].Ingredients[0].Amount = 999
	snap.Meals[0].Instructions[0] = "Changed"
	snap.Meals[0].Ingredients = append(snap.Meals[0].Ingredients, MealIngredient{Name: "Salt"})

	got := p.Snapshot().Meals[0]
	if got.Name != "Oats" {
		t.Errorf("Name = %q, want Oats", got.Name)
	}
	if got.Ingredients[0].Amount != 80 {
		t.Errorf("Ingredient amount = %v, want 80", got.Ingredients[0].Amount)
	}
	if got.Instructions[0] != "Boil milk" {
		t.Errorf("Instruction = %q, want Boil milk", got.Instructions[0])
	}
	if len(got.Ingredients) != 1 {
		t.Errorf("Ingredients = %d, want 1", len(got.Ingredients))
	}
}

func TestGeneratedMealClone(t *testing.T) {
	tests := []struct {
		name string
		meal GeneratedMeal
	}{
		{"full", GeneratedMeal{
			ID:           "m1",
			Ingredients:  []MealIngredient{{Name: "Rice"}},
			Instructions: []string{"Cook"},
		}},
		{"nil slices", GeneratedMeal{ID: "m2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.meal.Clone()
			if c.ID != tt.meal.ID {
				t.Errorf("ID = %q, want %q", c.ID, tt.meal.ID)
			}
			if (c.Ingredients == nil) != (tt.meal.Ingredients == nil) {
				t.Errorf("Ingredients nil-ness changed")
			}
			if (c.Instructions == nil) != (tt.meal.Instructions == nil) {
				t.Errorf("Instructions nil-ness changed")
			}
			if len(c.Ingredients) > 0 {
				c.Ingredients[0].Name = "Other"
				if tt.meal.Ingredients[0].Name == "Other" {
					t.Error("Clone shares ingredients with the original")
				}
			}
			if len(c.Instructions) > 0 {
				c.Instructions[0] = "Other"
				if tt.meal.Instructions[0] == "Other" {
					t.Error("Clone shares instructions with the original")
				}
			}
		})
	}
}
