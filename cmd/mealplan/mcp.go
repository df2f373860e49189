// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/mealplan/internal/logger"
	"github.com/harperreed/mealplan/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "mealplan": {
        "command": "mealplan",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  calculate_targets    Compute calorie and macro targets from body stats
  validate_pace        Check a weekly pace against safe limits
  generate_meal_plan   Build a full-day plan for a macro target
  regenerate_meal      Swap one meal in a stored plan
  list_meal_plans      List recent plans
  get_meal_plan        Get a plan with its meals
  get_shopping_list    Get the shopping list for a plan
  match_ingredient     Find the store item for an ingredient name

AVAILABLE RESOURCES:

  mealplan://latest    Newest plan with its shopping list
  mealplan://targets   Latest saved targets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, logger.L())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
