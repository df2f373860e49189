// ABOUTME: Mealplan configuration management with backend selection.
// ABOUTME: Handles settings, .env and environment overrides, and storage and catalog factories.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/catalog"
	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/planner"
	"github.com/harperreed/mealplan/internal/storage"
)

// Environment variables that override file settings.
const (
	EnvBackend           = "MEALPLAN_BACKEND"
	EnvDataDir           = "MEALPLAN_DATA_DIR"
	EnvMealCatalog       = "MEALPLAN_MEAL_CATALOG"
	EnvIngredientCatalog = "MEALPLAN_INGREDIENT_CATALOG"
	EnvUserID            = "MEALPLAN_USER_ID"
)

// DefaultUserID owns plans when no user is configured.
const DefaultUserID = "default"

// Config stores mealplan tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts mealplan.db here. Badger uses a badger/ folder here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/mealplan.
	DataDir string `json:"data_dir,omitempty"`

	// MealCatalog is a .json, .yaml or .yml file of meals.
	MealCatalog string `json:"meal_catalog,omitempty"`

	// IngredientCatalog is a CSV of priced store items.
	IngredientCatalog string `json:"ingredient_catalog,omitempty"`

	// UserID owns generated plans and saved targets.
	UserID string `json:"user_id,omitempty"`

	// Distribution names a meal distribution preset.
	Distribution string `json:"distribution,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetUserID returns the configured user, defaulting to DefaultUserID.
func (c *Config) GetUserID() string {
	if c.UserID == "" {
		return DefaultUserID
	}
	return c.UserID
}

// GetDistribution resolves the configured preset, defaulting to standard.
func (c *Config) GetDistribution() (models.MealDistribution, error) {
	if c.Distribution == "" {
		return models.DefaultDistribution(), nil
	}
	p, ok := planner.FindPreset(c.Distribution)
	if !ok {
		return models.MealDistribution{}, fmt.Errorf("unknown distribution preset: %q", c.Distribution)
	}
	return p.Distribution, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(logger *zap.Logger) (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case "sqlite":
		return storage.Open(filepath.Join(dataDir, "mealplan.db"))
	case "badger":
		return storage.OpenBadger(filepath.Join(dataDir, "badger"), logger)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// MealProvider returns the configured meal catalog, or an error if none is set.
func (c *Config) MealProvider(logger *zap.Logger) (catalog.MealProvider, error) {
	if c.MealCatalog == "" {
		return nil, fmt.Errorf("no meal catalog configured (set meal_catalog or %s)", EnvMealCatalog)
	}
	return catalog.MealFile{Path: ExpandPath(c.MealCatalog), Logger: logger}, nil
}

// IngredientProvider returns the configured ingredient catalog. With none set
// it returns an empty catalog so shopping lists keep recipe categories.
func (c *Config) IngredientProvider(logger *zap.Logger) catalog.IngredientProvider {
	if c.IngredientCatalog == "" {
		return catalog.StaticIngredients(nil)
	}
	return catalog.IngredientFile{
		Path:    ExpandPath(c.IngredientCatalog),
		Options: catalog.DefaultIngredientOptions(),
		Logger:  logger,
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "mealplan", "config.json")
}

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv(logger *zap.Logger) {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no .env file found, using system env")
			return
		}
		logger.Warn("failed to read .env file", zap.Error(err))
	}
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func loadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyEnv overrides file settings with MEALPLAN_* variables that are set.
func (c *Config) applyEnv() {
	overrides := []struct {
		key   string
		field *string
	}{
		{EnvBackend, &c.Backend},
		{EnvDataDir, &c.DataDir},
		{EnvMealCatalog, &c.MealCatalog},
		{EnvIngredientCatalog, &c.IngredientCatalog},
		{EnvUserID, &c.UserID},
	}
	for _, o := range overrides {
		if val, ok := os.LookupEnv(o.key); ok && val != "" {
			*o.field = val
		}
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
