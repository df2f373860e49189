// ABOUTME: MCP tool implementations for the meal planner.
// ABOUTME: Provides target calculation, plan generation, shopping lists and ingredient matching.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
	"github.com/harperreed/mealplan/internal/onboarding"
	"github.com/harperreed/mealplan/internal/planner"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_targets",
		Description: "Calculate daily calorie and macro targets from body stats and a goal",
	}, s.handleCalculateTargets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_meal_plan",
		Description: "Generate and save a full-day meal plan with its shopping list",
	}, s.handleGenerateMealPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "regenerate_meal",
		Description: "Swap one meal of a saved plan for the best alternative in its category",
	}, s.handleRegenerateMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meal_plans",
		Description: "List recent meal plans",
	}, s.handleListMealPlans)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_meal_plan",
		Description: "Get a meal plan by ID or ID prefix",
	}, s.handleGetMealPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_shopping_list",
		Description: "Get the shopping list for a meal plan",
	}, s.handleGetShoppingList)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "match_ingredient",
		Description: "Find the closest ingredient catalog entry for a recipe ingredient name",
	}, s.handleMatchIngredient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "validate_pace",
		Description: "Check whether a weekly weight change pace is safe for a goal",
	}, s.handleValidatePace)
}

// Tool input/output types

type calculateTargetsInput struct {
	Age           int      `json:"age" jsonschema:"Age in years"`
	Height        float64  `json:"height" jsonschema:"Height value"`
	HeightUnit    string   `json:"height_unit,omitempty" jsonschema:"cm (default) or in"`
	Weight        float64  `json:"weight" jsonschema:"Weight value"`
	WeightUnit    string   `json:"weight_unit,omitempty" jsonschema:"kg (default) or lb"`
	Gender        string   `json:"gender" jsonschema:"male or female"`
	Activity      string   `json:"activity" jsonschema:"sedentary, light, moderate, very or extra"`
	Goal          string   `json:"goal" jsonschema:"cut, maintain or bulk"`
	Pace          float64  `json:"pace,omitempty" jsonschema:"Weekly weight change in kg; defaults to the recommended pace"`
	TargetWeight  float64  `json:"target_weight,omitempty" jsonschema:"Target weight in kg"`
	TimelineWeeks int      `json:"timeline_weeks,omitempty" jsonschema:"Weeks to reach the target weight; sets the pace when pace is omitted"`
	BodyFatMethod string   `json:"bodyfat_method,omitempty" jsonschema:"visual, tape, known or unknown; inferred when omitted"`
	BodyFat       *float64 `json:"bodyfat,omitempty" jsonschema:"Known body fat percent"`
	Visual        *int     `json:"visual,omitempty" jsonschema:"Visual body fat index 1-5"`
	Waist         *float64 `json:"waist,omitempty" jsonschema:"Waist circumference in cm"`
	Neck          *float64 `json:"neck,omitempty" jsonschema:"Neck circumference in cm"`
	Hip           *float64 `json:"hip,omitempty" jsonschema:"Hip circumference in cm, needed for women"`
	Save          bool     `json:"save,omitempty" jsonschema:"Store the result as the latest targets"`
}

func (in calculateTargetsInput) answers() onboarding.Answers {
	return onboarding.Answers{
		Age: in.Age, Height: in.Height, HeightUnit: in.HeightUnit,
		Weight: in.Weight, WeightUnit: in.WeightUnit, Gender: in.Gender,
		Activity: in.Activity, Goal: in.Goal, PaceKg: in.Pace, TargetWeight: in.TargetWeight,
		TimelineWeeks: in.TimelineWeeks,
		BodyFatMethod: in.BodyFatMethod, BodyFat: in.BodyFat, Visual: in.Visual,
		Waist: in.Waist, Neck: in.Neck, Hip: in.Hip,
	}
}

type targetsOutput struct {
	ID      string              `json:"id,omitempty"`
	Targets *onboarding.Targets `json:"targets"`
	Message string              `json:"message"`
}

type generatePlanInput struct {
	Kcal     float64 `json:"kcal,omitempty" jsonschema:"Daily calories; omit all macros to use the latest saved targets"`
	ProteinG float64 `json:"protein_g,omitempty" jsonschema:"Daily protein in grams"`
	CarbsG   float64 `json:"carbs_g,omitempty" jsonschema:"Daily carbohydrates in grams"`
	FatG     float64 `json:"fat_g,omitempty" jsonschema:"Daily fat in grams"`
	Preset   string  `json:"preset,omitempty" jsonschema:"Meal distribution preset (standard, front-loaded, dinner-focus, frequent)"`
}

type planOutput struct {
	Success      bool                 `json:"success"`
	MealPlan     *models.MealPlan     `json:"meal_plan,omitempty"`
	ShoppingList *models.ShoppingList `json:"shopping_list,omitempty"`
	Accuracy     int                  `json:"accuracy"`
	Warnings     []string             `json:"warnings,omitempty"`
	Errors       []string             `json:"errors,omitempty"`
	Message      string               `json:"message"`
}

type regenerateMealInput struct {
	PlanID string `json:"plan_id" jsonschema:"Meal plan ID or prefix"`
	MealID string `json:"meal_id" jsonschema:"ID of the meal to replace"`
}

type listPlansInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type planIDInput struct {
	ID string `json:"id" jsonschema:"Meal plan ID or prefix"`
}

type matchIngredientInput struct {
	Name string `json:"name" jsonschema:"Recipe ingredient name"`
}

type validatePaceInput struct {
	Pace float64 `json:"pace" jsonschema:"Weekly weight change in kg"`
	Goal string  `json:"goal" jsonschema:"Goal (cut, maintain, bulk)"`
}

type paceOutput struct {
	IsValid        bool    `json:"is_valid"`
	Message        string  `json:"message,omitempty"`
	RecommendedMin float64 `json:"recommended_min"`
	RecommendedMax float64 `json:"recommended_max"`
	DefaultPace    float64 `json:"default_pace"`
}

// Tool handlers

func (s *Server) handleCalculateTargets(ctx context.Context, req *mcp.CallToolRequest, input calculateTargetsInput) (*mcp.CallToolResult, any, error) {
	t, saved, err := s.svc.CalculateTargets(input.answers(), input.Save)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to calculate targets: %w", err)
	}

	out := targetsOutput{
		Targets: t,
		Message: fmt.Sprintf("Target: %d kcal (P %.0fg / C %.0fg / F %.0fg)",
			t.CalorieTarget, t.Macros.ProteinG, t.Macros.CarbsG, t.Macros.FatG),
	}
	if saved != nil {
		out.ID = saved.ID
		out.Message += fmt.Sprintf(", saved (ID: %s)", shortID(saved.ID))
	}
	return nil, out, nil
}

func (s *Server) handleGenerateMealPlan(ctx context.Context, req *mcp.CallToolRequest, input generatePlanInput) (*mcp.CallToolResult, any, error) {
	var dist *models.MealDistribution
	if input.Preset != "" {
		p, ok := planner.FindPreset(input.Preset)
		if !ok {
			return nil, nil, fmt.Errorf("unknown distribution preset: %s", input.Preset)
		}
		dist = &p.Distribution
	}

	target := models.MacroGoals{Kcal: input.Kcal, ProteinG: input.ProteinG, CarbsG: input.CarbsG, FatG: input.FatG}
	result, err := s.svc.GeneratePlan(ctx, target, dist)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate meal plan: %w", err)
	}

	out := planOutput{
		Success:      result.Success,
		ShoppingList: result.ShoppingList,
		Accuracy:     result.Accuracy,
		Warnings:     result.Warnings,
		Errors:       result.Errors,
	}
	if !result.Success {
		out.Message = "Meal plan generation failed"
		return nil, out, nil
	}

	out.MealPlan = result.MealPlan.Snapshot()
	out.Message = fmt.Sprintf("Generated plan with %d meals, %d%% accuracy (ID: %s)",
		len(out.MealPlan.Meals), result.Accuracy, shortID(out.MealPlan.ID))
	return nil, out, nil
}

func (s *Server) handleRegenerateMeal(ctx context.Context, req *mcp.CallToolRequest, input regenerateMealInput) (*mcp.CallToolResult, any, error) {
	plan, list, err := s.svc.RegenerateMeal(ctx, input.PlanID, input.MealID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to regenerate meal: %w", err)
	}

	snap := plan.Snapshot()
	return nil, planOutput{
		Success:      true,
		MealPlan:     snap,
		ShoppingList: list,
		Accuracy:     snap.MacroAccuracy,
		Message:      fmt.Sprintf("Replaced meal %s, accuracy now %d%%", input.MealID, snap.MacroAccuracy),
	}, nil
}

func (s *Server) handleListMealPlans(ctx context.Context, req *mcp.CallToolRequest, input listPlansInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	plans, err := s.svc.ListPlans(input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	if len(plans) == 0 {
		return nil, map[string]interface{}{"message": "No meal plans found."}, nil
	}

	summaries := make([]map[string]interface{}, 0, len(plans))
	for _, p := range plans {
		snap := p.Snapshot()
		summaries = append(summaries, map[string]interface{}{
			"id":             snap.ID,
			"generated_at":   snap.GeneratedAt,
			"meals":          len(snap.Meals),
			"total_kcal":     snap.TotalMacros.Kcal,
			"target_kcal":    snap.TargetMacros.Kcal,
			"macro_accuracy": snap.MacroAccuracy,
			"status":         snap.Status,
		})
	}
	return nil, map[string]interface{}{"plans": summaries}, nil
}

func (s *Server) handleGetMealPlan(ctx context.Context, req *mcp.CallToolRequest, input planIDInput) (*mcp.CallToolResult, any, error) {
	p, err := s.svc.Repo().GetPlan(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("meal plan not found: %s", input.ID)
	}

	return nil, p.Snapshot(), nil
}

func (s *Server) handleGetShoppingList(ctx context.Context, req *mcp.CallToolRequest, input planIDInput) (*mcp.CallToolResult, any, error) {
	l, err := s.svc.ShoppingList(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get shopping list: %w", err)
	}

	return nil, l, nil
}

func (s *Server) handleMatchIngredient(ctx context.Context, req *mcp.CallToolRequest, input matchIngredientInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return nil, nil, fmt.Errorf("name is required")
	}

	m, err := s.svc.MatchIngredient(ctx, input.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to match ingredient: %w", err)
	}
	return nil, m, nil
}

func (s *Server) handleValidatePace(ctx context.Context, req *mcp.CallToolRequest, input validatePaceInput) (*mcp.CallToolResult, paceOutput, error) {
	goal := models.GoalType(input.Goal)
	if !goal.IsValid() {
		return nil, paceOutput{}, fmt.Errorf("unknown goal: %s", input.Goal)
	}

	v := nutrition.ValidateSafePace(input.Pace, goal)
	r := nutrition.GetRecommendedPaceRange(goal)
	return nil, paceOutput{
		IsValid:        v.IsValid,
		Message:        v.Message,
		RecommendedMin: r.Min,
		RecommendedMax: r.Max,
		DefaultPace:    r.Default,
	}, nil
}

// shortID trims an ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
