package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lazypower/waypoint/internal/config"
	"github.com/lazypower/waypoint/internal/frecency"
	"github.com/lazypower/waypoint/internal/pathutil"
	"github.com/lazypower/waypoint/internal/store"
)

// Logger is the logging collaborator. Notice is surfaced to the user when
// no log file is configured; Debug is log-file only.
type Logger interface {
	Notice(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Resolver canonicalizes raw paths. ok is false when the path should be ignored.
type Resolver interface {
	Resolve(raw string) (canonical string, ok bool)
}

// Database maps canonical paths to their usage records.
type Database struct {
	records  map[string]*frecency.Record
	resolver Resolver
	log      Logger
}

// New returns an empty Database using the real filesystem resolver.
func New(log Logger) *Database {
	return NewWithResolver(log, pathutil.Default)
}

// NewWithResolver returns an empty Database that canonicalizes through r.
func NewWithResolver(log Logger, r Resolver) *Database {
	return &Database{
		records:  make(map[string]*frecency.Record),
		resolver: r,
		log:      log,
	}
}

// Len returns the number of records.
func (d *Database) Len() int {
	return len(d.records)
}

// Entry returns a copy of the record stored under path.
func (d *Database) Entry(path string) (frecency.Record, bool) {
	rec, ok := d.records[path]
	if !ok {
		return frecency.Record{}, false
	}
	return *rec, true
}

// Entries returns every record sorted by path.
func (d *Database) Entries() []store.Entry {
	entries := make([]store.Entry, 0, len(d.records))
	for path, rec := range d.records {
		entries = append(entries, store.Entry{Path: path, Record: *rec})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

// Add records a visit to raw. A path that does not resolve, cannot be
// stored or matches an exclude pattern is skipped. Returns whether the
// database changed.
func (d *Database) Add(cfg *config.Config, raw string) bool {
	path, ok := d.resolver.Resolve(raw)
	if !ok || path == "" {
		d.log.Debug("cannot resolve path", "path", raw)
		return false
	}
	if !store.ValidPath(path) {
		d.log.Debug("path cannot be stored", "path", path)
		return false
	}
	if pattern, excluded := d.excluded(cfg, path); excluded {
		d.log.Debug("path excluded", "path", path, "pattern", pattern)
		return false
	}

	if rec, ok := d.records[path]; ok {
		flags := rec.Flags.Apply(cfg.FlagsAdd, cfg.FlagsRemove)
		rec.Merge(frecency.Record{Rating: 1.0, LastAccess: cfg.Now, Flags: flags})
		// The visit's flag set already holds the surviving old flags;
		// taking it verbatim lets removals stick.
		rec.Flags = flags
		d.log.Debug("updated rating", "path", path, "rating", rec.Rating)
		return true
	}

	rec := frecency.New(cfg.Now, frecency.Flags("").Apply(cfg.FlagsAdd, cfg.FlagsRemove))
	d.records[path] = &rec
	d.log.Debug("added new path", "path", path)
	return true
}

func (d *Database) excluded(cfg *config.Config, path string) (string, bool) {
	for _, pattern := range cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return pattern, true
		}
	}
	return "", false
}

// Remove deletes the record stored under exactly path. A missing key is
// logged, not returned as an error.
func (d *Database) Remove(path string) bool {
	if _, ok := d.records[path]; !ok {
		d.log.Notice("path not in database", "path", path)
		return false
	}
	delete(d.records, path)
	d.log.Debug("removed path", "path", path)
	return true
}

// LoadLine adds one stored line. Blank lines are ignored; malformed lines
// and lines whose path no longer resolves are dropped and logged.
func (d *Database) LoadLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	e, err := store.ParseLine(line)
	if err != nil {
		d.log.Notice("skipping stored line", "line", line, "err", err)
		return false
	}
	return d.insertLoaded(e)
}

// Load fills the database from b. Bad records are skipped; only a failure
// to read the store at all is returned.
func (d *Database) Load(b store.Backend) error {
	err := b.Load(func(lineNo int, e store.Entry, err error) {
		if err != nil {
			d.log.Notice("skipping stored record", "file", b.Path(), "line", lineNo, "err", err)
			return
		}
		d.insertLoaded(e)
	})
	if err != nil {
		return fmt.Errorf("load %s: %w", b.Path(), err)
	}
	return nil
}

func (d *Database) insertLoaded(e store.Entry) bool {
	path, ok := d.resolver.Resolve(e.Path)
	if !ok || path == "" {
		d.log.Debug("dropping vanished path", "path", e.Path)
		return false
	}
	rec := e.Record
	d.records[path] = &rec
	return true
}

// ErrPersist wraps storage failures from Persist.
var ErrPersist = errors.New("persist database")

// Persist writes every record to b in one shot.
func (d *Database) Persist(b store.Backend) error {
	if err := b.Save(d.Entries()); err != nil {
		d.log.Notice("failed to write database", "file", b.Path(), "err", err)
		return fmt.Errorf("%w to %s: %w", ErrPersist, b.Path(), err)
	}
	return nil
}
