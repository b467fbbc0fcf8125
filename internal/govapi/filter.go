package govapi

import (
	"strings"

	"github.com/krishimitra/mandi-data/internal/catalog"
)

// applyFilters narrows raw rows to the requested commodity and district with
// cascading relaxation. Constraints are relaxed most-specific first:
//
//  1. commodity exact match -> commodity substring match
//  2. district exact match  -> state-only (district constraint dropped)
//
// Each pass is skipped rather than enforced when applying it would eliminate
// every row: a neighbouring district's price for the right commodity is
// still useful, a wrong commodity never is. The commodity constraint is
// settled before geography is considered.
func applyFilters(rows []apiRecord, district, commodity string) []apiRecord {
	canonical := commodity
	if name, ok := catalog.Canonical(commodity); ok {
		canonical = name
	}

	// Commodity: exact, then substring, then give up (no rows).
	filtered := keep(rows, func(r apiRecord) bool {
		return strings.EqualFold(strings.TrimSpace(r.Commodity), canonical)
	})
	if len(filtered) == 0 {
		filtered = keep(rows, func(r apiRecord) bool {
			return strings.Contains(strings.ToLower(r.Commodity), strings.ToLower(canonical))
		})
	}
	if len(filtered) == 0 {
		return nil
	}

	// District: exact, relaxed to state-only when it would empty the set.
	if district != "" {
		byDistrict := keep(filtered, func(r apiRecord) bool {
			return strings.EqualFold(strings.TrimSpace(r.District), district)
		})
		if len(byDistrict) > 0 {
			filtered = byDistrict
		}
	}

	return filtered
}

func keep(rows []apiRecord, match func(apiRecord) bool) []apiRecord {
	var out []apiRecord
	for _, r := range rows {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}
