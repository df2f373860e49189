// ABOUTME: CLI command for moving meal plan data between storage backends.
// ABOUTME: Copies targets, plans, and shopping lists from SQLite to Badger or back.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/mealplan/internal/config"
	"github.com/harperreed/mealplan/internal/logger"
	"github.com/harperreed/mealplan/internal/storage"
)

var (
	migrateFrom  string
	migrateTo    string
	migrateForce bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move data between storage backends",
	Long: `Copy all meal plan data from one storage backend to another.

Both backends live under the configured data directory:

  sqlite   <data_dir>/mealplan.db
  badger   <data_dir>/badger/

IMPORTANT:

  - The destination must be empty unless --force is given
  - The source is left untouched
  - Set "backend" in ~/.config/mealplan/config.json afterwards to switch

USAGE:

  mealplan migrate --from sqlite --to badger
  mealplan migrate --from badger --to sqlite --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %q", migrateFrom)
		}

		dataDir := cfg.GetDataDir()
		dstPath, err := backendPath(migrateTo, dataDir)
		if err != nil {
			return err
		}
		if !migrateForce {
			inUse, err := backendInUse(migrateTo, dstPath)
			if err != nil {
				return err
			}
			if inUse {
				return fmt.Errorf("destination %s already has data (use --force to merge into it)", dstPath)
			}
		}

		src, err := openBackend(migrateFrom, dataDir)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		dst, err := openBackend(migrateTo, dataDir)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", migrateFrom, migrateTo)
		fmt.Printf("  Targets: %d\n", summary.Targets)
		fmt.Printf("  Plans: %d\n", summary.Plans)
		fmt.Printf("  Shopping lists: %d\n", summary.ShoppingLists)
		return nil
	},
}

func backendPath(backend, dataDir string) (string, error) {
	switch backend {
	case "sqlite":
		return filepath.Join(dataDir, "mealplan.db"), nil
	case "badger":
		return filepath.Join(dataDir, "badger"), nil
	}
	return "", fmt.Errorf("unknown backend: %q (use sqlite or badger)", backend)
}

func backendInUse(backend, path string) (bool, error) {
	if backend == "badger" {
		return storage.IsDirNonEmpty(path)
	}
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func openBackend(backend, dataDir string) (storage.Repository, error) {
	c := &config.Config{Backend: backend, DataDir: dataDir}
	return c.OpenStorage(logger.L())
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "sqlite", "source backend (sqlite or badger)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "badger", "destination backend (sqlite or badger)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "write into a destination that already has data")
	rootCmd.AddCommand(migrateCmd)
}
