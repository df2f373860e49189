// ABOUTME: Badger-backed Repository storing plans, lists and targets as JSON values.
// ABOUTME: Keys are type-prefixed; prefix lookups scan with a key-only iterator.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/harperreed/mealplan/internal/models"
)

const (
	planPrefix     = "plan:"
	shoppingPrefix = "shop:"
	targetsPrefix  = "targets:"
)

// BadgerStore is a Repository on an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
}

// Compile-time check that BadgerStore implements Repository.
var _ Repository = (*BadgerStore)(nil)

// badgerLogger routes Badger's internal logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// OpenBadger opens or creates a Badger store in dir. logger may be nil.
func OpenBadger(dir string, logger *zap.Logger) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger.Named("badger").Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func putJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	data, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// eachValue calls fn with every value under prefix.
func eachValue(txn *badger.Txn, prefix string, fn func([]byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		data, err := it.Item().ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(data); err != nil {
			return err
		}
	}
	return nil
}

// resolveKey finds the one key under typePrefix that starts with idOrPrefix.
func resolveKey(txn *badger.Txn, typePrefix, idOrPrefix string) (string, error) {
	idOrPrefix = strings.ToUpper(strings.TrimSpace(idOrPrefix))
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	search := []byte(typePrefix + idOrPrefix)
	var matches []string
	for it.Seek(search); it.ValidForPrefix(search); it.Next() {
		matches = append(matches, string(it.Item().KeyCopy(nil)))
		if len(matches) > 1 {
			return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return matches[0], nil
}

// CreatePlan stores a new meal plan.
func (s *BadgerStore) CreatePlan(p *models.MealPlan) error {
	snap := p.Snapshot()
	key := planPrefix + snap.ID
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err == nil {
			return fmt.Errorf("plan %s already exists", snap.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return putJSON(txn, key, snap)
	})
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a meal plan by ID or ID prefix.
func (s *BadgerStore) GetPlan(idOrPrefix string) (*models.MealPlan, error) {
	var p models.MealPlan
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := resolveKey(txn, planPrefix, idOrPrefix)
		if err != nil {
			return err
		}
		return getJSON(txn, key, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlans retrieves plans, most recent first. An empty userID lists every
// user's plans.
func (s *BadgerStore) ListPlans(userID string, limit int) ([]*models.MealPlan, error) {
	var plans []*models.MealPlan
	err := s.db.View(func(txn *badger.Txn) error {
		return eachValue(txn, planPrefix, func(data []byte) error {
			p, err := decodePlan(data)
			if err != nil {
				return err
			}
			if userID == "" || p.UserID == userID {
				plans = append(plans, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	sort.SliceStable(plans, func(i, j int) bool {
		if !plans[i].GeneratedAt.Equal(plans[j].GeneratedAt) {
			return plans[i].GeneratedAt.After(plans[j].GeneratedAt)
		}
		return plans[i].ID > plans[j].ID
	})
	if limit > 0 && len(plans) > limit {
		plans = plans[:limit]
	}
	return plans, nil
}

// UpdatePlan overwrites a stored plan.
func (s *BadgerStore) UpdatePlan(p *models.MealPlan) error {
	snap := p.Snapshot()
	key := planPrefix + snap.ID
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, snap.ID)
			}
			return err
		}
		return putJSON(txn, key, snap)
	})
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// DeletePlan removes a plan and its shopping list.
func (s *BadgerStore) DeletePlan(idOrPrefix string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key, err := resolveKey(txn, planPrefix, idOrPrefix)
		if err != nil {
			return err
		}
		id := strings.TrimPrefix(key, planPrefix)
		if err := txn.Delete([]byte(key)); err != nil {
			return err
		}
		return txn.Delete([]byte(shoppingPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// SaveShoppingList stores the list for its plan, replacing any earlier list.
func (s *BadgerStore) SaveShoppingList(l *models.ShoppingList) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(planPrefix + l.MealPlanID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: plan %s", ErrNotFound, l.MealPlanID)
			}
			return err
		}
		return putJSON(txn, shoppingPrefix+l.MealPlanID, l)
	})
	if err != nil {
		return fmt.Errorf("save shopping list: %w", err)
	}
	return nil
}

// GetShoppingListForPlan retrieves the list for a plan ID or ID prefix.
func (s *BadgerStore) GetShoppingListForPlan(planID string) (*models.ShoppingList, error) {
	var l models.ShoppingList
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := resolveKey(txn, planPrefix, planID)
		if err != nil {
			return err
		}
		err = getJSON(txn, shoppingPrefix+strings.TrimPrefix(key, planPrefix), &l)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: no shopping list for plan %s", ErrNotFound, planID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if l.Items == nil {
		l.Items = []models.ShoppingListItem{}
	}
	l.Recount()
	return &l, nil
}

// SetShoppingItemChecked marks one item on a plan's list as bought or not.
func (s *BadgerStore) SetShoppingItemChecked(planID, itemID string, checked bool) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key, err := resolveKey(txn, planPrefix, planID)
		if err != nil {
			return err
		}
		listKey := shoppingPrefix + strings.TrimPrefix(key, planPrefix)

		var l models.ShoppingList
		if err := getJSON(txn, listKey, &l); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: no shopping list for plan %s", ErrNotFound, planID)
			}
			return err
		}

		for i := range l.Items {
			if l.Items[i].ID == itemID {
				l.Items[i].Checked = checked
				l.Recount()
				return putJSON(txn, listKey, &l)
			}
		}
		return fmt.Errorf("%w: shopping item %s", ErrNotFound, itemID)
	})
}

// SaveTargets stores a computed target set.
func (s *BadgerStore) SaveTargets(t *SavedTargets) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, targetsPrefix+t.ID, t)
	})
	if err != nil {
		return fmt.Errorf("save targets: %w", err)
	}
	return nil
}

// GetLatestTargets returns the most recently saved targets for userID.
func (s *BadgerStore) GetLatestTargets(userID string) (*SavedTargets, error) {
	all, err := s.listTargets()
	if err != nil {
		return nil, err
	}

	var latest *SavedTargets
	for _, t := range all {
		if t.UserID != userID {
			continue
		}
		if latest == nil || t.SavedAt.After(latest.SavedAt) ||
			(t.SavedAt.Equal(latest.SavedAt) && t.ID > latest.ID) {
			latest = t
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: no saved targets for %q", ErrNotFound, userID)
	}
	return latest, nil
}

// listTargets returns every saved target set in key order.
func (s *BadgerStore) listTargets() ([]*SavedTargets, error) {
	var all []*SavedTargets
	err := s.db.View(func(txn *badger.Txn) error {
		return eachValue(txn, targetsPrefix, func(data []byte) error {
			var t SavedTargets
			if err := json.Unmarshal(data, &t); err != nil {
				return err
			}
			all = append(all, &t)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	return all, nil
}
