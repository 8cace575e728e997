package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recordings (
		id           TEXT PRIMARY KEY,
		exercise_id  TEXT NOT NULL,
		exam_type    TEXT NOT NULL,
		kind         TEXT NOT NULL CHECK(kind IN ('audio','transcript','writing','workbook')),
		path         TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size_bytes   INTEGER NOT NULL DEFAULT 0,
		duration_sec INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recordings_exercise ON recordings(exam_type, exercise_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recordings_created ON recordings(created_at)`,
}
