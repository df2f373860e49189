// ABOUTME: Repository interface for meal plan storage.
// ABOUTME: Defines contract for plans, shopping lists, and saved targets.
package storage

import (
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/onboarding"
)

// ErrNotFound is wrapped by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// SavedTargets is a computed target set kept for later plan generation.
type SavedTargets struct {
	ID      string              `json:"id" yaml:"id"`
	UserID  string              `json:"user_id" yaml:"user_id"`
	Targets *onboarding.Targets `json:"targets" yaml:"targets"`
	SavedAt time.Time           `json:"saved_at" yaml:"saved_at"`
}

// NewSavedTargets wraps targets with a time-sortable ID.
func NewSavedTargets(userID string, t *onboarding.Targets) *SavedTargets {
	return &SavedTargets{
		ID:      ulid.Make().String(),
		UserID:  userID,
		Targets: t,
		SavedAt: time.Now(),
	}
}

// Repository defines the storage interface for meal plan data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Meal plan operations
	CreatePlan(p *models.MealPlan) error
	GetPlan(idOrPrefix string) (*models.MealPlan, error)
	ListPlans(userID string, limit int) ([]*models.MealPlan, error)
	UpdatePlan(p *models.MealPlan) error
	DeletePlan(idOrPrefix string) error

	// Shopping list operations
	SaveShoppingList(l *models.ShoppingList) error
	GetShoppingListForPlan(planID string) (*models.ShoppingList, error)
	SetShoppingItemChecked(planID, itemID string, checked bool) error

	// Target operations
	SaveTargets(t *SavedTargets) error
	GetLatestTargets(userID string) (*SavedTargets, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
