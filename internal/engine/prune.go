package engine

import (
	"sort"

	"github.com/lazypower/waypoint/internal/config"
)

// Every rating decays by this factor on a prune pass, survivors included.
const pruneDecay = 0.9

// Prune trims the database to cfg.MaxLines. When over capacity, all ratings
// decay first, then the lowest-rated excess records are evicted. Equal
// ratings evict in path order. A negative MaxLines counts as zero. Returns
// whether anything was evicted.
func (d *Database) Prune(cfg *config.Config) bool {
	limit := max(cfg.MaxLines, 0)
	if len(d.records) <= limit {
		return false
	}

	type ranked struct {
		path   string
		rating float64
	}
	all := make([]ranked, 0, len(d.records))
	for path, rec := range d.records {
		rec.Rating *= pruneDecay
		all = append(all, ranked{path, rec.Rating})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].rating != all[j].rating {
			return all[i].rating < all[j].rating
		}
		return all[i].path < all[j].path
	})

	excess := len(all) - limit
	for _, r := range all[:excess] {
		delete(d.records, r.path)
	}
	d.log.Debug("pruned database", "evicted", excess, "kept", len(d.records))
	return excess > 0
}
