// ABOUTME: Saved target operations for SQLite storage.
// ABOUTME: The most recently saved targets seed plan generation.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SaveTargets stores a computed target set.
func (d *DB) SaveTargets(t *SavedTargets) error {
	data, err := json.Marshal(t.Targets)
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO targets (id, user_id, data, saved_at)
		VALUES (?, ?, ?, ?)
	`, t.ID, t.UserID, string(data), formatTime(t.SavedAt))
	if err != nil {
		return fmt.Errorf("save targets: %w", err)
	}
	return nil
}

// GetLatestTargets returns the most recently saved targets for userID.
func (d *DB) GetLatestTargets(userID string) (*SavedTargets, error) {
	row := d.db.QueryRow(`
		SELECT id, user_id, data, saved_at
		FROM targets
		WHERE user_id = ?
		ORDER BY saved_at DESC, id DESC
		LIMIT 1
	`, userID)

	t, err := scanTargets(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no saved targets for %q", ErrNotFound, userID)
		}
		return nil, err
	}
	return t, nil
}

// listTargets returns every saved target set, oldest first.
func (d *DB) listTargets() ([]*SavedTargets, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, data, saved_at
		FROM targets
		ORDER BY saved_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var all []*SavedTargets
	for rows.Next() {
		t, err := scanTargets(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, t)
	}
	return all, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTargets(row rowScanner) (*SavedTargets, error) {
	var t SavedTargets
	var data, savedAt string
	if err := row.Scan(&t.ID, &t.UserID, &data, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan targets: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &t.Targets); err != nil {
		return nil, fmt.Errorf("unmarshal targets: %w", err)
	}
	t.SavedAt, _ = time.Parse(timeFormat, savedAt)
	return &t, nil
}
