// ABOUTME: MCP resource implementations for the meal planner.
// ABOUTME: Provides mealplan://latest and mealplan://targets resources.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/mealplan/internal/storage"
)

const (
	latestURI  = "mealplan://latest"
	targetsURI = "mealplan://targets"
)

func (s *Server) registerResources() {
	// mealplan://latest - newest plan with its shopping list
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         latestURI,
		Name:        "Latest Meal Plan",
		Description: "The most recent meal plan and its shopping list",
		MIMEType:    "application/json",
	}, s.handleLatestResource)

	// mealplan://targets - latest saved calorie and macro targets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         targetsURI,
		Name:        "Nutrition Targets",
		Description: "Most recently saved calorie and macro targets",
		MIMEType:    "application/json",
	}, s.handleTargetsResource)
}

// Resource handlers

func (s *Server) handleLatestResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
	}

	plan, err := s.svc.LatestPlan()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		result["message"] = "No meal plans yet."
	case err != nil:
		return nil, fmt.Errorf("failed to get latest plan: %w", err)
	default:
		snap := plan.Snapshot()
		result["meal_plan"] = snap

		list, err := s.svc.Repo().GetShoppingListForPlan(snap.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to get shopping list: %w", err)
		}
		if list != nil {
			result["shopping_list"] = list
		}
	}

	return jsonResource(latestURI, result)
}

func (s *Server) handleTargetsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{}

	saved, err := s.svc.LatestTargets()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		result["message"] = "No targets saved yet."
	case err != nil:
		return nil, fmt.Errorf("failed to get targets: %w", err)
	default:
		result["id"] = saved.ID
		result["saved_at"] = saved.SavedAt.Format(time.RFC3339)
		result["targets"] = saved.Targets
	}

	return jsonResource(targetsURI, result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
