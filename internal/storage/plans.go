// ABOUTME: Meal plan CRUD operations for SQLite storage.
// ABOUTME: Plans are stored as JSON with indexed columns for listing and lookup.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/mealplan/internal/models"
)

// timeFormat sorts lexically in UTC.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ulidLength is the length of a full plan or list ID.
const ulidLength = 26

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// encodePlan serializes a plan snapshot. Pass the result of Snapshot, never a
// plan another goroutine may be regenerating.
func encodePlan(snap *models.MealPlan) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return data, nil
}

func decodePlan(data []byte) (*models.MealPlan, error) {
	var p models.MealPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return &p, nil
}

// CreatePlan stores a new meal plan in the database.
func (d *DB) CreatePlan(p *models.MealPlan) error {
	snap := p.Snapshot()
	data, err := encodePlan(snap)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO meal_plans (id, user_id, status, macro_accuracy, target_kcal, data, generated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = d.db.Exec(query,
		snap.ID,
		snap.UserID,
		string(snap.Status),
		snap.MacroAccuracy,
		snap.TargetMacros.Kcal,
		string(data),
		formatTime(snap.GeneratedAt),
		formatTime(snap.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a meal plan by ID or ID prefix.
func (d *DB) GetPlan(idOrPrefix string) (*models.MealPlan, error) {
	id, err := d.resolveID("meal_plans", idOrPrefix)
	if err != nil {
		return nil, err
	}

	var data string
	err = d.db.QueryRow("SELECT data FROM meal_plans WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return decodePlan([]byte(data))
}

// ListPlans retrieves plans, most recent first. An empty userID lists every
// user's plans.
func (d *DB) ListPlans(userID string, limit int) ([]*models.MealPlan, error) {
	var query string
	var args []interface{}

	if userID != "" {
		query = `
			SELECT data FROM meal_plans
			WHERE user_id = ?
			ORDER BY generated_at DESC, id DESC
		`
		args = append(args, userID)
	} else {
		query = `
			SELECT data FROM meal_plans
			ORDER BY generated_at DESC, id DESC
		`
	}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.MealPlan
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		p, err := decodePlan([]byte(data))
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// UpdatePlan overwrites a stored plan, typically after a meal regeneration.
func (d *DB) UpdatePlan(p *models.MealPlan) error {
	snap := p.Snapshot()
	data, err := encodePlan(snap)
	if err != nil {
		return err
	}

	result, err := d.db.Exec(`
		UPDATE meal_plans
		SET status = ?, macro_accuracy = ?, target_kcal = ?, data = ?, updated_at = ?
		WHERE id = ?
	`,
		string(snap.Status),
		snap.MacroAccuracy,
		snap.TargetMacros.Kcal,
		string(data),
		formatTime(snap.UpdatedAt),
		snap.ID,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, snap.ID)
	}
	return nil
}

// DeletePlan removes a plan and its shopping list (cascade delete).
func (d *DB) DeletePlan(idOrPrefix string) error {
	id, err := d.resolveID("meal_plans", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM meal_plans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}

	return nil
}

// resolveID finds the full ID in table from a prefix.
func (d *DB) resolveID(table, idOrPrefix string) (string, error) {
	idOrPrefix = strings.ToUpper(strings.TrimSpace(idOrPrefix))
	if len(idOrPrefix) == ulidLength {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	// table is always a package constant.
	query := fmt.Sprintf(`SELECT id FROM %s WHERE id LIKE ? || '%%'`, table)
	rows, err := d.db.Query(query, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}

	return matches[0], nil
}
