package engine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lazypower/waypoint/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Match is a search hit and its score.
type Match struct {
	Path  string
	Score float64
}

// FindAll returns every path matching cfg.Terms, ascending by score with
// ties in path order, so the best match is last.
func (d *Database) FindAll(cfg *config.Config) []Match {
	fold := folder(cfg.CaseSensitive)
	terms := make([]string, len(cfg.Terms))
	for i, t := range cfg.Terms {
		terms[i] = fold(t)
	}

	var matches []Match
	for path, rec := range d.records {
		if !typeAllowed(cfg, path) {
			continue
		}
		subject := fold(path)
		if !orderedMatch(subject, terms) {
			continue
		}
		if cfg.Strict && !lastSegmentMatch(subject, terms) {
			continue
		}
		matches = append(matches, Match{Path: path, Score: cfg.Score(*rec)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score < matches[j].Score
		}
		return matches[i].Path < matches[j].Path
	})
	return matches
}

// FindBest returns the highest scoring match. Equal top scores resolve to
// the lexicographically greatest path.
func (d *Database) FindBest(cfg *config.Config) (Match, bool) {
	matches := d.FindAll(cfg)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[len(matches)-1], true
}

// typeAllowed checks the path's current type on disk against the
// dirs/files switches. Paths that cannot be stat'ed pass.
func typeAllowed(cfg *config.Config, path string) bool {
	if cfg.FindDirs && cfg.FindFiles {
		return true
	}
	fi, err := os.Stat(path)
	if err != nil {
		return true
	}
	if !cfg.FindDirs && fi.IsDir() {
		return false
	}
	if !cfg.FindFiles && fi.Mode().IsRegular() {
		return false
	}
	return true
}

// orderedMatch reports whether every term occurs in s, in order, each one
// starting at or after the end of the previous match.
func orderedMatch(s string, terms []string) bool {
	start := 0
	for _, t := range terms {
		i := strings.Index(s[start:], t)
		if i < 0 {
			return false
		}
		start += i + len(t)
	}
	return true
}

// lastSegmentMatch requires the last term somewhere in the final path
// segment, searched independently of orderedMatch's cursor.
func lastSegmentMatch(s string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	segment := s[strings.LastIndexByte(s, byte(filepath.Separator))+1:]
	return strings.Contains(segment, terms[len(terms)-1])
}

// folder returns the normalization applied to both paths and terms: NFC
// always, plus Unicode lower-casing when the search is case-insensitive.
func folder(caseSensitive bool) func(string) string {
	if caseSensitive {
		return norm.NFC.String
	}
	lower := cases.Lower(language.Und)
	return func(s string) string {
		return lower.String(norm.NFC.String(s))
	}
}
