package storage

import (
	"database/sql"
	"fmt"
)

// migration is a single schema version step.
type migration struct {
	version int
	sql     string
}

// migrations are applied in order inside a transaction each.
// Never edit an applied migration; append a new one.
var migrations = []migration{
	{1, `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS clip (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		video_id TEXT NOT NULL,
		title TEXT NOT NULL,
		thumbnail TEXT NOT NULL DEFAULT '',
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		video_duration INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		is_public INTEGER NOT NULL DEFAULT 0,
		share_slug TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES account(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS tag (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, name),
		FOREIGN KEY (user_id) REFERENCES account(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS clip_tag (
		clip_id TEXT NOT NULL,
		tag_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (clip_id, tag_id),
		FOREIGN KEY (clip_id) REFERENCES clip(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tag(id) ON DELETE CASCADE
	);
	`},
	{2, `
	CREATE INDEX IF NOT EXISTS idx_clip_user ON clip(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_tag_user ON tag(user_id, name);
	CREATE INDEX IF NOT EXISTS idx_clip_tag_tag ON clip_tag(tag_id);
	`},
	// Tag names are unique per user regardless of case; the version-1 UNIQUE
	// constraint only catches exact-case duplicates.
	{3, `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tag_user_name_nocase ON tag(user_id, name COLLATE NOCASE);
	`},
}

// LatestSchemaVersion returns the highest migration version.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB applies any pending schema migrations.
// PRE: db is a valid database connection with foreign keys enabled
// POST: schema is at LatestSchemaVersion; schema_version records each step
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed to record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d failed to commit: %w", m.version, err)
		}
	}
	return nil
}
