// ABOUTME: Export and import functionality for meal plan data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats for any Repository.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/onboarding"
)

// ExportData represents the full export format for meal plan data.
// Profiles holds each user's latest targets in the flat onboarding shape
// older clients read; import ignores it.
type ExportData struct {
	Version       string                             `json:"version" yaml:"version"`
	ExportedAt    time.Time                          `json:"exported_at" yaml:"exported_at"`
	Tool          string                             `json:"tool" yaml:"tool"`
	Plans         []*models.MealPlan                 `json:"plans" yaml:"plans"`
	ShoppingLists []*models.ShoppingList             `json:"shopping_lists" yaml:"shopping_lists"`
	Targets       []*SavedTargets                    `json:"targets" yaml:"targets"`
	Profiles      map[string]onboarding.LegacyRecord `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	targets, err := d.listTargets()
	if err != nil {
		return nil, err
	}
	return gatherData(d, targets)
}

// ImportData imports data from an export.
func (d *DB) ImportData(data *ExportData) error {
	return importAll(d, data)
}

// GetAllData retrieves all data for export.
func (s *BadgerStore) GetAllData() (*ExportData, error) {
	targets, err := s.listTargets()
	if err != nil {
		return nil, err
	}
	return gatherData(s, targets)
}

// ImportData imports data from an export.
func (s *BadgerStore) ImportData(data *ExportData) error {
	return importAll(s, data)
}

func gatherData(r Repository, targets []*SavedTargets) (*ExportData, error) {
	plans, err := r.ListPlans("", 0)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	lists := []*models.ShoppingList{}
	for _, p := range plans {
		l, err := r.GetShoppingListForPlan(p.ID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get shopping list: %w", err)
		}
		lists = append(lists, l)
	}

	if plans == nil {
		plans = []*models.MealPlan{}
	}
	if targets == nil {
		targets = []*SavedTargets{}
	}

	return &ExportData{
		Version:       "1.0",
		ExportedAt:    time.Now(),
		Tool:          "mealplan",
		Plans:         plans,
		ShoppingLists: lists,
		Targets:       targets,
		Profiles:      legacyProfiles(targets),
	}, nil
}

func legacyProfiles(targets []*SavedTargets) map[string]onboarding.LegacyRecord {
	latest := latestTargetsByUser(targets)
	if len(latest) == 0 {
		return nil
	}
	profiles := make(map[string]onboarding.LegacyRecord, len(latest))
	for _, t := range latest {
		if t.Targets != nil {
			profiles[t.UserID] = onboarding.LegacyFromTargets(t.Targets)
		}
	}
	return profiles
}

func importAll(r Repository, data *ExportData) error {
	for _, t := range data.Targets {
		if err := r.SaveTargets(t); err != nil {
			return fmt.Errorf("import targets: %w", err)
		}
	}
	for _, p := range data.Plans {
		if err := r.CreatePlan(p); err != nil {
			return fmt.Errorf("import plan: %w", err)
		}
	}
	for _, l := range data.ShoppingLists {
		if err := r.SaveShoppingList(l); err != nil {
			return fmt.Errorf("import shopping list: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML, with targets flattened to their
// headline numbers.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version       string                 `yaml:"version"`
		ExportedAt    string                 `yaml:"exported_at"`
		Tool          string                 `yaml:"tool"`
		Plans         []*models.MealPlan     `yaml:"plans"`
		ShoppingLists []*models.ShoppingList `yaml:"shopping_lists"`
		Targets       []yamlTargets          `yaml:"targets"`
	}{
		Version:       data.Version,
		ExportedAt:    data.ExportedAt.Format(time.RFC3339),
		Tool:          data.Tool,
		Plans:         data.Plans,
		ShoppingLists: data.ShoppingLists,
		Targets:       make([]yamlTargets, 0, len(data.Targets)),
	}

	for _, t := range data.Targets {
		yt := yamlTargets{
			ID:      t.ID,
			UserID:  t.UserID,
			SavedAt: t.SavedAt.Format(time.RFC3339),
		}
		if t.Targets != nil {
			yt.Goal = string(t.Targets.Goal)
			yt.BMR = t.Targets.BMR
			yt.TDEE = t.Targets.TDEE
			yt.CalorieTarget = t.Targets.CalorieTarget
			yt.Macros = t.Targets.Macros
		}
		yamlData.Targets = append(yamlData.Targets, yt)
	}

	return yaml.Marshal(yamlData)
}

type yamlTargets struct {
	ID            string            `yaml:"id"`
	UserID        string            `yaml:"user_id"`
	SavedAt       string            `yaml:"saved_at"`
	Goal          string            `yaml:"goal,omitempty"`
	BMR           int               `yaml:"bmr"`
	TDEE          int               `yaml:"tdee"`
	CalorieTarget int               `yaml:"calorie_target"`
	Macros        models.MacroGoals `yaml:"macros"`
}

// ExportMarkdown renders plans, their shopping lists and the latest targets
// per user as Markdown. A non-nil since keeps only plans generated at or
// after it.
func ExportMarkdown(r Repository, since *time.Time) (string, error) {
	data, err := r.GetAllData()
	if err != nil {
		return "", err
	}

	lists := make(map[string]*models.ShoppingList, len(data.ShoppingLists))
	for _, l := range data.ShoppingLists {
		lists[l.MealPlanID] = l
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Meal Plan Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	latest := latestTargetsByUser(data.Targets)
	if len(latest) > 0 {
		sb.WriteString("## Targets\n\n")
		sb.WriteString("| User | Goal | Calories | Protein | Carbs | Fat |\n")
		sb.WriteString("|------|------|----------|---------|-------|-----|\n")
		for _, t := range latest {
			m := t.Targets.Macros
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.0fg | %.0fg | %.0fg |\n",
				t.UserID, t.Targets.Goal, t.Targets.CalorieTarget, m.ProteinG, m.CarbsG, m.FatG))
		}
		sb.WriteString("\n")
	}

	for _, p := range data.Plans {
		if since != nil && p.GeneratedAt.Before(*since) {
			continue
		}
		writePlanMarkdown(&sb, p)
		if l, ok := lists[p.ID]; ok {
			writeShoppingMarkdown(&sb, l)
		}
	}

	return sb.String(), nil
}

func writePlanMarkdown(sb *strings.Builder, p *models.MealPlan) {
	sb.WriteString(fmt.Sprintf("## Plan %s - %s\n\n", shortID(p.ID), p.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Target: %.0f kcal, %.0fg protein, %.0fg carbs, %.0fg fat  \n",
		p.TargetMacros.Kcal, p.TargetMacros.ProteinG, p.TargetMacros.CarbsG, p.TargetMacros.FatG))
	sb.WriteString(fmt.Sprintf("Accuracy: %d%% (%s)\n\n", p.MacroAccuracy, p.Status))

	sb.WriteString("| Meal | Name | Kcal | Protein | Carbs | Fat |\n")
	sb.WriteString("|------|------|------|---------|-------|-----|\n")
	for _, m := range p.Meals {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %.0fg | %.0fg | %.0fg |\n",
			m.Category, m.Name, m.Macros.Kcal, m.Macros.ProteinG, m.Macros.CarbsG, m.Macros.FatG))
	}
	t := p.TotalMacros
	sb.WriteString(fmt.Sprintf("| **Total** | | %.0f | %.0fg | %.0fg | %.0fg |\n\n", t.Kcal, t.ProteinG, t.CarbsG, t.FatG))
}

func writeShoppingMarkdown(sb *strings.Builder, l *models.ShoppingList) {
	sb.WriteString(fmt.Sprintf("### Shopping list (%d items, ~%d₮)\n\n", l.TotalItems, l.EstimatedCost))
	for _, it := range l.Items {
		box := " "
		if it.Checked {
			box = "x"
		}
		line := fmt.Sprintf("- [%s] %s - %g %s", box, it.Name, it.Amount, it.Unit)
		if it.Price != nil {
			line += fmt.Sprintf(" (%d₮)", *it.Price)
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
}

func latestTargetsByUser(all []*SavedTargets) []*SavedTargets {
	byUser := make(map[string]*SavedTargets)
	for _, t := range all {
		if t.Targets == nil {
			continue
		}
		cur, ok := byUser[t.UserID]
		if !ok || t.SavedAt.After(cur.SavedAt) {
			byUser[t.UserID] = t
		}
	}

	out := make([]*SavedTargets, 0, len(byUser))
	for _, t := range byUser {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(r Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(&exportData)
}
