// Package schedule merges per-venue listings into one canonical ordering.
package schedule

import (
	"sort"

	"github.com/tmcfarland/marquee/internal/pipeline"
)

// Aggregate sorts listings ascending by canonical time and removes
// duplicates. Listings without a resolved time sort after every resolved
// one, and the sort is stable so their relative input order survives.
// Duplicate identity is (theater, title, display text); the first
// occurrence in sorted order wins.
func Aggregate(listings []pipeline.Listing) []pipeline.Listing {
	ordered := make([]pipeline.Listing, len(listings))
	copy(ordered, listings)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		switch {
		case a.HasTime() && b.HasTime():
			return a.When.Before(b.When)
		case a.HasTime():
			return true
		default:
			return false
		}
	})

	seen := make(map[string]struct{}, len(ordered))
	deduped := ordered[:0]
	for _, listing := range ordered {
		key := listing.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, listing)
	}
	return deduped
}
