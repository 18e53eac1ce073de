package store

import (
	"os"
	"path/filepath"
	"strings"
)

// Backend loads and saves the whole path database in one shot.
type Backend interface {
	// Load calls visit once per stored record. Malformed records are passed
	// with a non-nil error and loading continues. A missing store is empty.
	Load(visit func(lineNo int, e Entry, err error)) error
	// Save replaces the stored contents with entries. On failure the prior
	// contents are left intact.
	Save(entries []Entry) error
	Path() string
	Close() error
}

// sqliteExts selects the SQLite backend by data file extension.
var sqliteExts = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// Open returns the backend for path: SQLite for .db/.sqlite/.sqlite3 files,
// the flat line format otherwise.
func Open(path string) (Backend, error) {
	if sqliteExts[strings.ToLower(filepath.Ext(path))] {
		db, err := OpenDB(path)
		if err != nil {
			return nil, err
		}
		return &SQLiteBackend{db: db}, nil
	}
	return NewFlatFile(path), nil
}

// DefaultDataFile returns the default data file: $XDG_CONFIG_HOME/waypoint/waypoint.dat,
// falling back to ~/.config/waypoint/waypoint.dat.
func DefaultDataFile() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "waypoint.dat"), nil
}

// DefaultConfigDir returns the directory holding waypoint's config and data.
func DefaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "waypoint"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "waypoint"), nil
}
