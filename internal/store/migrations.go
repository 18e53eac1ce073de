package store

import (
	"errors"
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "records: visited paths and their usage",
		SQL: `
CREATE TABLE records (
    path        TEXT PRIMARY KEY,
    rating      REAL NOT NULL CHECK (rating > 0),
    last_access INTEGER NOT NULL CHECK (last_access >= 0),
    flags       TEXT NOT NULL DEFAULT ''
);
`,
	},
	{
		Version:     2,
		Description: "records: rating index for pruning",
		SQL: `
CREATE INDEX idx_records_rating ON records(rating);
`,
	},
}

// ErrSchemaTooNew means the database was written by a newer waypoint.
var ErrSchemaTooNew = errors.New("database schema is newer than this binary")

// migrate brings the schema up to the last entry of migrations, one
// transaction per step. Steps at or below the recorded version are skipped.
func (db *DB) migrate() error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		)
	`); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	current, err := db.SchemaVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if latest := migrations[len(migrations)-1].Version; current > latest {
		return fmt.Errorf("%w: %s is at version %d, this binary knows %d", ErrSchemaTooNew, db.Path, current, latest)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := db.apply(m); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
		m.Version, m.Description,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("record migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a fresh file.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
