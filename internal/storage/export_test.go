// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
	"github.com/harperreed/mealplan/internal/onboarding"
)

func seedRepo(t *testing.T, repo Repository) *models.MealPlan {
	t.Helper()

	p := testPlan("alice", time.Now())
	if err := repo.CreatePlan(p); err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if err := repo.SaveShoppingList(testList(p)); err != nil {
		t.Fatalf("SaveShoppingList failed: %v", err)
	}
	st := NewSavedTargets("alice", &onboarding.Targets{
		CalorieTarget: 2045,
		Goal:          models.GoalCut,
		Macros:        models.MacroGoals{Kcal: 2045, ProteinG: 140, CarbsG: 250, FatG: 55},
	})
	if err := repo.SaveTargets(st); err != nil {
		t.Fatalf("SaveTargets failed: %v", err)
	}
	return p
}

func TestExportJSON(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		seedRepo(t, repo)

		data, err := ExportJSON(repo)
		if err != nil {
			t.Fatalf("ExportJSON failed: %v", err)
		}

		var export ExportData
		if err := json.Unmarshal(data, &export); err != nil {
			t.Fatalf("Failed to parse JSON: %v", err)
		}
		if export.Version != "1.0" {
			t.Errorf("Expected version 1.0, got %s", export.Version)
		}
		if export.Tool != "mealplan" {
			t.Errorf("Expected tool mealplan, got %s", export.Tool)
		}
		if len(export.Plans) != 1 || len(export.ShoppingLists) != 1 || len(export.Targets) != 1 {
			t.Errorf("Unexpected counts: %d plans, %d lists, %d targets",
				len(export.Plans), len(export.ShoppingLists), len(export.Targets))
		}
	})
}

func TestExportJSONLegacyProfiles(t *testing.T) {
	backends(t, func(t *testing.T, repo Repository) {
		st := NewSavedTargets("alice", &onboarding.Targets{
			Metric:         nutrition.Metric{HeightCm: 180, WeightKg: 90},
			AgeYears:       30,
			Gender:         models.GenderMale,
			Activity:       models.ActivityVery,
			Goal:           models.GoalCut,
			TargetWeightKg: 80,
			BodyFatPercent: 22,
			Timeline:       &nutrition.Timeline{EstimatedWeeks: 20},
			Macros:         models.MacroGoals{Kcal: 2200, ProteinG: 180, CarbsG: 200, FatG: 70},
		})
		if err := repo.SaveTargets(st); err != nil {
			t.Fatalf("SaveTargets failed: %v", err)
		}

		data, err := ExportJSON(repo)
		if err != nil {
			t.Fatalf("ExportJSON failed: %v", err)
		}
		var export ExportData
		if err := json.Unmarshal(data, &export); err != nil {
			t.Fatalf("Failed to parse JSON: %v", err)
		}

		profile, ok := export.Profiles["alice"]
		if !ok {
			t.Fatalf("Expected a profile for alice, got %+v", export.Profiles)
		}
		if profile.ActivityLevel != "very_active" {
			t.Errorf("ActivityLevel = %q, want very_active", profile.ActivityLevel)
		}
		if profile.GoalWeight != 80 || profile.TimelineWeeks != 20 || profile.Age != 30 {
			t.Errorf("profile = %+v", profile)
		}
	})
}

func TestExportJSONEmpty(t *testing.T) {
	db := setupTestDB(t)

	data, err := ExportJSON(db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"plans": []`) {
		t.Errorf("Expected empty plans array, got %s", data)
	}
	if strings.Contains(string(data), `"profiles"`) {
		t.Errorf("Expected no profiles without targets, got %s", data)
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	seedRepo(t, db)

	data, err := ExportYAML(db)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if parsed["tool"] != "mealplan" {
		t.Errorf("Expected tool mealplan, got %v", parsed["tool"])
	}
	if !strings.Contains(string(data), "calorie_target: 2045") {
		t.Errorf("Expected flattened targets in YAML:\n%s", data)
	}
	if !strings.Contains(string(data), "meal_plan_id:") {
		t.Errorf("Expected shopping lists in YAML:\n%s", data)
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	p := seedRepo(t, db)

	md, err := ExportMarkdown(db, nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Meal Plan Export",
		"## Targets",
		"| alice | cut | 2045 | 140g | 250g | 55g |",
		"## Plan " + p.ID[:8],
		"| breakfast | Овъёос | 500 | 35g | 50g | 17g |",
		"### Shopping list (2 items, ~4500₮)",
		"- [ ] овъёос - 80 г (4500₮)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q:\n%s", want, md)
		}
	}

	future := time.Now().Add(time.Hour)
	md, err = ExportMarkdown(db, &future)
	if err != nil {
		t.Fatalf("ExportMarkdown with since failed: %v", err)
	}
	if strings.Contains(md, "## Plan ") {
		t.Error("Expected plans before since to be filtered out")
	}
}

func TestImportJSON(t *testing.T) {
	src := setupTestDB(t)
	p := seedRepo(t, src)

	data, err := ExportJSON(src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestBadger(t)
	if err := ImportJSON(dst, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	got, err := dst.GetPlan(p.ID)
	if err != nil {
		t.Fatalf("GetPlan after import failed: %v", err)
	}
	if got.TotalMacros != p.Snapshot().TotalMacros {
		t.Errorf("Totals mismatch after import: %+v", got.TotalMacros)
	}
	if _, err := dst.GetShoppingListForPlan(p.ID); err != nil {
		t.Errorf("Expected shopping list after import: %v", err)
	}

	if err := ImportJSON(dst, []byte("not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
