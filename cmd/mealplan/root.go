// ABOUTME: Root Cobra command for mealplan CLI.
// ABOUTME: Loads config and opens storage before each command, closes it once the command finishes.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/config"
	"github.com/harperreed/mealplan/internal/logger"
	"github.com/harperreed/mealplan/internal/service"
	"github.com/harperreed/mealplan/internal/storage"
)

var (
	verbose bool

	cfg  *config.Config
	repo storage.Repository
	svc  *service.Service
)

// Commands that never touch meal plan storage.
var noStorage = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"catalog":       true,
	"sync":          true,
	"migrate":       true,
	"completion":    true,
}

var rootCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "Nutrition targets and meal plans",
	Long: `Mealplan turns body stats and a goal into daily calorie and macro
targets, then builds full-day meal plans and shopping lists from a meal catalog.

QUICK START:

  $ mealplan targets --age 30 --height 178 --weight 82 --gender male \
      --activity moderate --goal cut --target-weight 76 --save
  $ mealplan plan generate                # Uses the saved targets
  $ mealplan plan list                    # Recent plans
  $ mealplan shop 01J                     # Shopping list for a plan

ONBOARDING:

  Answer questions one at a time; progress is kept for 24 hours and synced
  across devices with Charm Cloud.

  $ mealplan onboard set age 30
  $ mealplan onboard show
  $ mealplan onboard compute --save

CATALOGS:

  Meals come from a .json/.yaml file (meal_catalog or MEALPLAN_MEAL_CATALOG).
  Priced store items come from a CSV (ingredient_catalog or
  MEALPLAN_INGREDIENT_CATALOG) and are used to price shopping lists.

MCP INTEGRATION:

  Run 'mealplan mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "mealplan": { "command": "mealplan", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Plans, shopping lists and saved targets live in SQLite at
  ~/.local/share/mealplan/mealplan.db, or in Badger with backend "badger".
  Settings are read from ~/.config/mealplan/config.json and .env.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log := logger.L()

		config.LoadDotEnv(log)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if noStorage[commandRoot(cmd).Name()] {
			return nil
		}

		repo, err = cfg.OpenStorage(log)
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		log.Debug("opened storage",
			zap.String("backend", cfg.GetBackend()),
			zap.String("data_dir", cfg.GetDataDir()),
		)

		svc, err = newService(cfg, repo)
		return err
	},
}

// newService wires catalogs and storage for the configured user.
func newService(c *config.Config, r storage.Repository) (*service.Service, error) {
	log := logger.L()

	dist, err := c.GetDistribution()
	if err != nil {
		return nil, err
	}

	opts := service.Options{
		Repo:         r,
		Ingredients:  c.IngredientProvider(log),
		UserID:       c.GetUserID(),
		Distribution: dist,
		Logger:       log,
	}
	if meals, err := c.MealProvider(log); err == nil {
		opts.Meals = meals
	} else {
		log.Debug("meal catalog unavailable", zap.Error(err))
	}
	return service.New(opts), nil
}

// commandRoot returns the top-level subcommand cmd belongs to.
func commandRoot(cmd *cobra.Command) *cobra.Command {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// closeStorage runs after every command, including failed ones.
func closeStorage() {
	if repo != nil {
		if err := repo.Close(); err != nil {
			logger.L().Warn("failed to close storage", zap.Error(err))
		}
		repo = nil
		svc = nil
	}
	logger.Sync()
}

func init() {
	cobra.OnFinalize(closeStorage)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
}
