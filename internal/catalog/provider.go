// ABOUTME: Meal and ingredient catalog providers consumed by the planner.
// ABOUTME: File-backed meal catalogs are JSON or YAML lists of meals.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/mealplan/internal/models"
)

// MealProvider loads the meal catalog.
type MealProvider interface {
	Load(ctx context.Context) ([]models.GeneratedMeal, error)
}

// IngredientProvider loads the ingredient catalog.
type IngredientProvider interface {
	Load(ctx context.Context) ([]models.IngredientItem, error)
}

// StaticMeals is a MealProvider over an in-memory list.
type StaticMeals []models.GeneratedMeal

// Load implements MealProvider.
func (s StaticMeals) Load(ctx context.Context) ([]models.GeneratedMeal, error) {
	return s, ctx.Err()
}

// StaticIngredients is an IngredientProvider over an in-memory list.
type StaticIngredients []models.IngredientItem

// Load implements IngredientProvider.
func (s StaticIngredients) Load(ctx context.Context) ([]models.IngredientItem, error) {
	return s, ctx.Err()
}

// MealFile loads meals from a .json, .yaml or .yml file.
type MealFile struct {
	Path   string
	Logger *zap.Logger
}

// Load implements MealProvider. Meals with an unknown category are skipped.
func (f MealFile) Load(ctx context.Context) ([]models.GeneratedMeal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read meal catalog: %w", err)
	}

	var meals []models.GeneratedMeal
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".json":
		err = json.Unmarshal(data, &meals)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &meals)
	default:
		return nil, fmt.Errorf("unsupported meal catalog format: %s", f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse meal catalog: %w", err)
	}

	valid := make([]models.GeneratedMeal, 0, len(meals))
	for _, m := range meals {
		if !models.IsValidMealCategory(string(m.Category)) {
			logger.Warn("skipping meal with unknown category",
				zap.String("meal", m.ID), zap.String("category", string(m.Category)))
			continue
		}
		if m.ServingSize == 0 {
			m.ServingSize = 1
		}
		valid = append(valid, m)
	}

	logger.Debug("loaded meal catalog", zap.String("path", f.Path), zap.Int("meals", len(valid)))
	return valid, nil
}

// WriteMeals writes meals to path as JSON or YAML depending on its extension.
func WriteMeals(path string, meals []models.GeneratedMeal) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(meals)
	default:
		data, err = json.MarshalIndent(meals, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode meals: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write meals: %w", err)
	}
	return nil
}
