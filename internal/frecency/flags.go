package frecency

import "strings"

// Flags is a set of single-character markers kept in first-seen order.
type Flags string

// ParseFlags builds a Flags set from s, dropping duplicate characters.
func ParseFlags(s string) Flags {
	return Flags("").Union(Flags(s))
}

// Has reports whether c is in the set.
func (f Flags) Has(c rune) bool {
	return strings.ContainsRune(string(f), c)
}

// Union returns f plus every character of other not already present.
func (f Flags) Union(other Flags) Flags {
	var b strings.Builder
	seen := make(map[rune]bool, len(f)+len(other))
	for _, s := range []Flags{f, other} {
		for _, c := range s {
			if seen[c] {
				continue
			}
			seen[c] = true
			b.WriteRune(c)
		}
	}
	return Flags(b.String())
}

// Without returns f minus every character of other.
func (f Flags) Without(other Flags) Flags {
	if other == "" {
		return f
	}
	var b strings.Builder
	for _, c := range f {
		if !other.Has(c) {
			b.WriteRune(c)
		}
	}
	return Flags(b.String())
}

// Apply adds then removes, so a flag in both sets ends up removed.
func (f Flags) Apply(add, remove Flags) Flags {
	return f.Union(add).Without(remove)
}
