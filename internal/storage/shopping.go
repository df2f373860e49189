// ABOUTME: Shopping list operations for SQLite storage.
// ABOUTME: Each plan has at most one list; items keep their aggregation order.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/mealplan/internal/models"
)

// SaveShoppingList stores the list for its plan, replacing any earlier list.
func (d *DB) SaveShoppingList(l *models.ShoppingList) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM shopping_lists WHERE meal_plan_id = ?", l.MealPlanID); err != nil {
		return fmt.Errorf("replace shopping list: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO shopping_lists (id, meal_plan_id, user_id, created_at)
		VALUES (?, ?, ?, ?)
	`, l.ID, l.MealPlanID, l.UserID, formatTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("save shopping list: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO shopping_items (list_id, position, id, name, amount, unit, category, price, image_url, notes, checked)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare shopping item insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range l.Items {
		_, err := stmt.Exec(l.ID, i, it.ID, it.Name, it.Amount, it.Unit,
			string(it.Category), it.Price, it.ImageURL, it.Notes, it.Checked)
		if err != nil {
			return fmt.Errorf("save shopping item %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit shopping list: %w", err)
	}
	return nil
}

// GetShoppingListForPlan retrieves the list for a plan ID or ID prefix.
func (d *DB) GetShoppingListForPlan(planID string) (*models.ShoppingList, error) {
	id, err := d.resolveID("meal_plans", planID)
	if err != nil {
		return nil, err
	}

	var l models.ShoppingList
	var createdAt string
	err = d.db.QueryRow(`
		SELECT id, meal_plan_id, user_id, created_at
		FROM shopping_lists
		WHERE meal_plan_id = ?
	`, id).Scan(&l.ID, &l.MealPlanID, &l.UserID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no shopping list for plan %s", ErrNotFound, planID)
		}
		return nil, fmt.Errorf("get shopping list: %w", err)
	}
	l.CreatedAt, _ = time.Parse(timeFormat, createdAt)

	rows, err := d.db.Query(`
		SELECT id, name, amount, unit, category, price, image_url, notes, checked
		FROM shopping_items
		WHERE list_id = ?
		ORDER BY position
	`, l.ID)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	l.Items = []models.ShoppingListItem{}
	for rows.Next() {
		var it models.ShoppingListItem
		var category string
		var price sql.NullInt64
		var imageURL, notes sql.NullString

		if err := rows.Scan(&it.ID, &it.Name, &it.Amount, &it.Unit, &category,
			&price, &imageURL, &notes, &it.Checked); err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		it.Category = models.ShoppingCategory(category)
		if price.Valid {
			p := int(price.Int64)
			it.Price = &p
		}
		it.ImageURL = imageURL.String
		it.Notes = notes.String
		l.Items = append(l.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}

	l.Recount()
	return &l, nil
}

// SetShoppingItemChecked marks one item on a plan's list as bought or not.
func (d *DB) SetShoppingItemChecked(planID, itemID string, checked bool) error {
	id, err := d.resolveID("meal_plans", planID)
	if err != nil {
		return err
	}

	result, err := d.db.Exec(`
		UPDATE shopping_items SET checked = ?
		WHERE id = ? AND list_id = (SELECT id FROM shopping_lists WHERE meal_plan_id = ?)
	`, checked, itemID, id)
	if err != nil {
		return fmt.Errorf("check shopping item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check shopping item: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: shopping item %s", ErrNotFound, itemID)
	}
	return nil
}
