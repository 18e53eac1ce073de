package frecency

import (
	"fmt"
	"strings"
)

// Method selects how a Record is scored.
type Method int

const (
	Frecency Method = iota
	Date
	Rating
)

func (m Method) String() string {
	switch m {
	case Date:
		return "date"
	case Rating:
		return "rating"
	default:
		return "frecency"
	}
}

// ParseMethod maps a configuration string to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "frecency":
		return Frecency, nil
	case "date":
		return Date, nil
	case "rating":
		return Rating, nil
	}
	return Frecency, fmt.Errorf("unknown score method %q (want date, rating or frecency)", s)
}

// Upper bounds, in seconds, of the recency brackets.
const (
	hour = 3600
	day  = 86400
	week = 604800
)

// Record is the usage history of one path.
type Record struct {
	Rating     float64
	LastAccess int64 // unix seconds
	Flags      Flags
}

// New returns the record created on the first visit of a path.
func New(now int64, flags Flags) Record {
	return Record{Rating: 1.0, LastAccess: now, Flags: flags}
}

// Merge folds other into r. The rating grows by other.Rating/r.Rating so
// popular paths gain less per visit than rarely used ones.
func (r *Record) Merge(other Record) {
	r.Rating += other.Rating / r.Rating
	if other.LastAccess > r.LastAccess {
		r.LastAccess = other.LastAccess
	}
	r.Flags = r.Flags.Union(other.Flags)
}

// Score ranks r under the given method at time now.
func (r Record) Score(method Method, now int64) float64 {
	switch method {
	case Date:
		return float64(r.LastAccess)
	case Rating:
		return r.Rating
	}
	return r.Rating * recencyMultiplier(now-r.LastAccess)
}

// recencyMultiplier buckets an age in seconds. Negative ages (clock skew)
// land in the catch-all bucket.
func recencyMultiplier(age int64) float64 {
	switch {
	case age < 0:
		return 1.0
	case age <= hour:
		return 6.0
	case age <= day:
		return 4.0
	case age <= week:
		return 2.0
	}
	return 1.0
}
