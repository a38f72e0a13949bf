package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateLegacyStatuses(db); err != nil {
		return fmt.Errorf("normalizing calendar statuses: %w", err)
	}
	return nil
}

// migrateLegacyStatuses rewrites statuses from older releases onto the
// current lifecycle. Idempotent.
func migrateLegacyStatuses(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`UPDATE calendar_entries SET status = 'published' WHERE status = 'completed'`); err != nil {
		return fmt.Errorf("mapping completed to published: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE calendar_entries SET status = 'idea'
		 WHERE status NOT IN ('idea','planned','writing','review','published')`); err != nil {
		return fmt.Errorf("resetting unknown statuses: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user' CHECK(role IN ('admin','user')),
		created_at    TEXT NOT NULL,
		last_login_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_entries (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date            TEXT NOT NULL,
		subject         TEXT NOT NULL DEFAULT '',
		topic           TEXT NOT NULL DEFAULT '',
		detailed_agenda TEXT NOT NULL DEFAULT '',
		expertise       TEXT NOT NULL DEFAULT '',
		audience        TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'idea',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_calendar_user_date ON calendar_entries(user_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_user ON calendar_entries(user_id)`,
	// Columns added after the first release.
	`ALTER TABLE calendar_entries ADD COLUMN goal TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE calendar_entries ADD COLUMN tone TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE calendar_entries ADD COLUMN format TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE calendar_entries ADD COLUMN keywords TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE calendar_entries ADD COLUMN brand_voice TEXT NOT NULL DEFAULT ''`,
}
