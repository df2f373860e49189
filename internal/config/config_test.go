// ABOUTME: Tests for mealplan configuration management.
// ABOUTME: Covers load, save, env overrides, backend selection, and path expansion.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/models"
)

// isolate points config lookups at a temp dir and clears MEALPLAN_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{EnvBackend, EnvDataDir, EnvMealCatalog, EnvIngredientCatalog, EnvUserID} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "badger"}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/mealplan-data"}
	want := filepath.Join(home, "mealplan-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestGetUserID(t *testing.T) {
	if got := (&Config{}).GetUserID(); got != DefaultUserID {
		t.Errorf("GetUserID() = %q, want %q", got, DefaultUserID)
	}
	if got := (&Config{UserID: "alice"}).GetUserID(); got != "alice" {
		t.Errorf("GetUserID() = %q, want %q", got, "alice")
	}
}

func TestGetDistribution(t *testing.T) {
	tests := []struct {
		name    string
		preset  string
		want    models.MealDistribution
		wantErr bool
	}{
		{"default", "", models.DefaultDistribution(), false},
		{"front-loaded", "front-loaded", models.MealDistribution{Breakfast: 35, Lunch: 30, Dinner: 25, Snacks: 10}, false},
		{"unknown", "brunch-heavy", models.MealDistribution{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := (&Config{Distribution: tt.preset}).GetDistribution()
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetDistribution() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetDistribution() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/mealplan", filepath.Join(home, "data/mealplan")},
		{"data/mealplan", "data/mealplan"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" || cfg.MealCatalog != "" {
		t.Errorf("Expected empty defaults, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Backend:           "badger",
		DataDir:           "/tmp/mealplan-data",
		MealCatalog:       "/tmp/meals.yaml",
		IngredientCatalog: "/tmp/ingredients.csv",
		UserID:            "alice",
		Distribution:      "dinner-focus",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Loaded config mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	if err := (&Config{Backend: "sqlite"}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "mealplan")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "mealplan")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)

	if err := (&Config{Backend: "sqlite", UserID: "alice"}).Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	t.Setenv(EnvBackend, "badger")
	t.Setenv(EnvMealCatalog, "/srv/meals.json")
	t.Setenv(EnvUserID, "bob")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "badger" || cfg.MealCatalog != "/srv/meals.json" || cfg.UserID != "bob" {
		t.Errorf("Expected env overrides applied, got %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvUserID+"=carol\n"), 0600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv does not override variables that are already set.
	os.Unsetenv(EnvUserID)

	LoadDotEnv(zap.NewNop())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.UserID != "carol" {
		t.Errorf("Expected user from .env, got %q", cfg.UserID)
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	want := filepath.Join(tmpDir, "mealplan", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}

	repo, err := cfg.OpenStorage(nil)
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "mealplan.db")); os.IsNotExist(err) {
		t.Error("Expected mealplan.db to be created")
	}
}

func TestOpenStorageBadger(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "badger", DataDir: tmpDir}

	repo, err := cfg.OpenStorage(zap.NewNop())
	if err != nil {
		t.Fatalf("OpenStorage() for badger failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "badger")); os.IsNotExist(err) {
		t.Error("Expected badger directory to be created")
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}
	if _, err := cfg.OpenStorage(nil); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestProviders(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.MealProvider(nil); err == nil {
		t.Error("Expected error without a meal catalog")
	}

	items, err := cfg.IngredientProvider(nil).Load(context.Background())
	if err != nil || len(items) != 0 {
		t.Errorf("Expected empty ingredient catalog, got %v, %v", items, err)
	}

	cfg.MealCatalog = "~/meals.json"
	if _, err := cfg.MealProvider(nil); err != nil {
		t.Errorf("MealProvider() failed: %v", err)
	}
}

func TestConfigJSONSerialization(t *testing.T) {
	cfg := &Config{Backend: "badger", DataDir: "~/mealplan-data"}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if loaded.Backend != cfg.Backend || loaded.DataDir != cfg.DataDir {
		t.Errorf("Round trip mismatch: got %+v", loaded)
	}
}
