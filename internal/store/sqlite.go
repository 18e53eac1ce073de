package store

import (
	"fmt"

	"github.com/lazypower/waypoint/internal/frecency"
)

// SQLiteBackend keeps records in a SQLite table instead of a flat file.
type SQLiteBackend struct {
	db *DB
}

// NewSQLiteBackend wraps an already opened DB.
func NewSQLiteBackend(db *DB) *SQLiteBackend {
	return &SQLiteBackend{db: db}
}

func (s *SQLiteBackend) Path() string { return s.db.Path }

func (s *SQLiteBackend) Close() error { return s.db.Close() }

// Load reads every row. Rows that break record invariants are reported
// through visit with ErrMalformed, numbered by row position.
func (s *SQLiteBackend) Load(visit func(lineNo int, e Entry, err error)) error {
	rows, err := s.db.Query(`SELECT path, rating, last_access, flags FROM records ORDER BY path`)
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	rowNo := 0
	for rows.Next() {
		rowNo++
		var e Entry
		var flags string
		if err := rows.Scan(&e.Path, &e.Record.Rating, &e.Record.LastAccess, &flags); err != nil {
			visit(rowNo, Entry{}, fmt.Errorf("%w: %v", ErrMalformed, err))
			continue
		}
		e.Record.Flags = frecency.ParseFlags(flags)
		visit(rowNo, e, Validate(e))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("scan records: %w", err)
	}
	return nil
}

// Save replaces all rows in a single transaction.
func (s *SQLiteBackend) Save(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records (path, rating, last_access, flags) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Path, e.Record.Rating, e.Record.LastAccess, string(e.Record.Flags)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
