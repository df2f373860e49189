// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for meal plans, shopping lists and items, and saved targets.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meal_plans (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL,
		macro_accuracy INTEGER NOT NULL,
		target_kcal REAL NOT NULL,
		data TEXT NOT NULL,
		generated_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shopping_lists (
		id TEXT PRIMARY KEY,
		meal_plan_id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (meal_plan_id) REFERENCES meal_plans(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS shopping_items (
		list_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		unit TEXT NOT NULL,
		category TEXT NOT NULL,
		price INTEGER,
		image_url TEXT,
		notes TEXT,
		checked INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (list_id, id),
		FOREIGN KEY (list_id) REFERENCES shopping_lists(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS targets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		data TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_user_generated ON meal_plans(user_id, generated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_plans_generated ON meal_plans(generated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_shopping_items_list ON shopping_items(list_id, position);
	CREATE INDEX IF NOT EXISTS idx_targets_user_saved ON targets(user_id, saved_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
