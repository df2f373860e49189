// ABOUTME: Application service tying the planning engine to catalogs and storage.
// ABOUTME: Shared by the CLI and the MCP server so both behave the same.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/catalog"
	"github.com/harperreed/mealplan/internal/matcher"
	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/nutrition"
	"github.com/harperreed/mealplan/internal/onboarding"
	"github.com/harperreed/mealplan/internal/planner"
	"github.com/harperreed/mealplan/internal/shopping"
	"github.com/harperreed/mealplan/internal/storage"
)

var (
	// ErrNoMealCatalog is returned when planning is requested without a meal catalog.
	ErrNoMealCatalog = errors.New("no meal catalog configured (set meal_catalog or MEALPLAN_MEAL_CATALOG)")
	// ErrNoAlternative is returned when a meal has no replacement in its category.
	ErrNoAlternative = errors.New("no alternative meal available")
	// ErrNoTargets is returned when no macros were given and none are saved.
	ErrNoTargets = errors.New("no target macros given and no saved targets")
)

// Options configures a Service. Meals and Ingredients may be nil.
type Options struct {
	Repo         storage.Repository
	Meals        catalog.MealProvider
	Ingredients  catalog.IngredientProvider
	UserID       string
	Distribution models.MealDistribution
	Logger       *zap.Logger
}

// Service runs planning operations for one user.
type Service struct {
	repo         storage.Repository
	meals        catalog.MealProvider
	ingredients  catalog.IngredientProvider
	userID       string
	distribution models.MealDistribution
	logger       *zap.Logger
	matcher      *matcher.Matcher
	now          func() time.Time

	mu        sync.Mutex
	assembler *planner.Assembler
	catalog   []models.IngredientItem
	loaded    bool
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dist := opts.Distribution
	if dist.IsZero() {
		dist = models.DefaultDistribution()
	}
	return &Service{
		repo:         opts.Repo,
		meals:        opts.Meals,
		ingredients:  opts.Ingredients,
		userID:       opts.UserID,
		distribution: dist,
		logger:       logger,
		matcher:      matcher.New(nil),
		now:          time.Now,
	}
}

// UserID returns the user the service acts for.
func (s *Service) UserID() string {
	return s.userID
}

// Repo returns the underlying repository.
func (s *Service) Repo() storage.Repository {
	return s.repo
}

// ingredientCatalog loads the ingredient catalog once.
func (s *Service) ingredientCatalog(ctx context.Context) ([]models.IngredientItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.catalog, nil
	}
	if s.ingredients != nil {
		items, err := s.ingredients.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load ingredient catalog: %w", err)
		}
		s.catalog = items
	}
	s.loaded = true
	s.logger.Debug("ingredient catalog ready", zap.Int("items", len(s.catalog)))
	return s.catalog, nil
}

// planner builds the assembler from both catalogs once.
func (s *Service) planner(ctx context.Context) (*planner.Assembler, error) {
	items, err := s.ingredientCatalog(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assembler != nil {
		return s.assembler, nil
	}
	if s.meals == nil {
		return nil, ErrNoMealCatalog
	}
	meals, err := s.meals.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load meal catalog: %w", err)
	}
	agg := shopping.New(s.matcher, items, s.logger)
	s.assembler = planner.New(meals, agg, s.logger)
	s.logger.Debug("meal catalog ready", zap.Int("meals", len(meals)))
	return s.assembler, nil
}

// CalculateTargets computes targets from answers and optionally saves them.
func (s *Service) CalculateTargets(a onboarding.Answers, save bool) (*onboarding.Targets, *storage.SavedTargets, error) {
	d, err := onboarding.DraftFromAnswers(a)
	if err != nil {
		return nil, nil, err
	}
	t, err := onboarding.Compute(d, s.now())
	if err != nil {
		return nil, nil, err
	}
	if !save {
		return t, nil, nil
	}
	saved, err := s.SaveTargets(t)
	if err != nil {
		return nil, nil, err
	}
	return t, saved, nil
}

// SaveTargets stores targets for the service's user.
func (s *Service) SaveTargets(t *onboarding.Targets) (*storage.SavedTargets, error) {
	saved := storage.NewSavedTargets(s.userID, t)
	if err := s.repo.SaveTargets(saved); err != nil {
		return nil, fmt.Errorf("save targets: %w", err)
	}
	return saved, nil
}

// LatestTargets returns the most recently saved targets.
func (s *Service) LatestTargets() (*storage.SavedTargets, error) {
	return s.repo.GetLatestTargets(s.userID)
}

// GeneratePlan builds a plan for target, falling back to the latest saved
// targets when target is zero. A nil dist uses the configured distribution.
// An explicit target that fails macro validation yields an unsuccessful
// result listing the problems. Successful plans and their shopping lists
// are stored.
func (s *Service) GeneratePlan(ctx context.Context, target models.MacroGoals, dist *models.MealDistribution) (planner.GenerationResult, error) {
	if !target.IsZero() {
		if v := nutrition.ValidateMacros(target); !v.Valid {
			return planner.GenerationResult{Errors: v.Errors}, nil
		}
	} else {
		saved, err := s.repo.GetLatestTargets(s.userID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return planner.GenerationResult{}, ErrNoTargets
		case err != nil:
			return planner.GenerationResult{}, err
		}
		target = saved.Targets.Macros
	}
	if dist == nil {
		dist = &s.distribution
	}

	a, err := s.planner(ctx)
	if err != nil {
		return planner.GenerationResult{}, err
	}

	result := a.Generate(planner.Request{UserID: s.userID, TargetMacros: target, Distribution: dist})
	if !result.Success {
		return result, nil
	}

	if err := s.repo.CreatePlan(result.MealPlan); err != nil {
		return result, fmt.Errorf("save plan: %w", err)
	}
	if result.ShoppingList != nil {
		if err := s.repo.SaveShoppingList(result.ShoppingList); err != nil {
			// A plan is only kept together with its shopping list.
			if delErr := s.repo.DeletePlan(result.MealPlan.ID); delErr != nil {
				s.logger.Error("failed to remove plan after shopping list error",
					zap.String("plan_id", result.MealPlan.ID), zap.Error(delErr))
			}
			return result, fmt.Errorf("save shopping list: %w", err)
		}
	}
	return result, nil
}

// RegenerateMeal swaps one meal of a stored plan and rebuilds its shopping
// list. Checked marks on the old list are dropped.
func (s *Service) RegenerateMeal(ctx context.Context, planID, mealID string) (*models.MealPlan, *models.ShoppingList, error) {
	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		return nil, nil, err
	}
	if plan.MealIndex(mealID) < 0 {
		return nil, nil, fmt.Errorf("meal %s %w in plan %s", mealID, storage.ErrNotFound, plan.ID)
	}

	a, err := s.planner(ctx)
	if err != nil {
		return nil, nil, err
	}
	ok, err := a.RegenerateMeal(plan, mealID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrNoAlternative
	}

	if err := s.repo.UpdatePlan(plan); err != nil {
		return nil, nil, fmt.Errorf("update plan: %w", err)
	}

	list := a.ShoppingList(plan)
	if list != nil {
		if err := s.repo.SaveShoppingList(list); err != nil {
			return nil, nil, fmt.Errorf("save shopping list: %w", err)
		}
	}
	return plan, list, nil
}

// ListPlans returns the user's newest plans.
func (s *Service) ListPlans(limit int) ([]*models.MealPlan, error) {
	return s.repo.ListPlans(s.userID, limit)
}

// LatestPlan returns the user's newest plan.
func (s *Service) LatestPlan() (*models.MealPlan, error) {
	plans, err := s.repo.ListPlans(s.userID, 1)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("latest plan: %w", storage.ErrNotFound)
	}
	return plans[0], nil
}

// ShoppingList returns the stored list for a plan ID or prefix.
func (s *Service) ShoppingList(planID string) (*models.ShoppingList, error) {
	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetShoppingListForPlan(plan.ID)
}

// CheckItem marks a shopping list item as bought or not.
func (s *Service) CheckItem(planID, itemID string, checked bool) error {
	plan, err := s.repo.GetPlan(planID)
	if err != nil {
		return err
	}
	return s.repo.SetShoppingItemChecked(plan.ID, itemID, checked)
}

// MatchIngredient finds the best catalog entry for a recipe ingredient name.
func (s *Service) MatchIngredient(ctx context.Context, name string) (models.IngredientMatch, error) {
	items, err := s.ingredientCatalog(ctx)
	if err != nil {
		return models.IngredientMatch{}, err
	}
	return s.matcher.FindMatch(name, items), nil
}
