package engine

import (
	"strings"

	"github.com/eungjin-cigro/cursorflow-sub004/internal/models"
)

// Filter restricts which entries a query returns. The zero value
// matches everything (ImportanceDebug is the lowest rank, so a zero
// floor excludes nothing).
type Filter struct {
	Lane          string            // exact lane name
	MinImportance models.Importance // entries below this rank are excluded
	Type          models.EntryType  // exact semantic type
	Search        string            // case-insensitive substring over message and type
}

// Matches reports whether an entry passes the filter.
func (f Filter) Matches(e models.BufferedLogEntry) bool {
	if f.Lane != "" && e.Lane != f.Lane {
		return false
	}
	if e.Importance < f.MinImportance {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Message), needle) &&
			!strings.Contains(strings.ToLower(string(e.Type)), needle) {
			return false
		}
	}
	return true
}

// QueryOptions selects a page of filtered entries.
type QueryOptions struct {
	Offset int
	Limit  int // <= 0 means no limit
	Filter Filter

	// FromEnd selects the slice ending Offset entries before the end of
	// the filtered set — the "most recent N" query a dashboard renders.
	FromEnd bool
}

// paginate slices the filtered sequence per the query options,
// preserving original order.
func paginate(entries []models.BufferedLogEntry, opts QueryOptions) []models.BufferedLogEntry {
	n := len(entries)

	if opts.FromEnd {
		end := n - opts.Offset
		if end < 0 {
			end = 0
		}
		start := 0
		if opts.Limit > 0 && end-opts.Limit > 0 {
			start = end - opts.Limit
		}
		return entries[start:end]
	}

	start := opts.Offset
	if start > n {
		start = n
	}
	end := n
	if opts.Limit > 0 && start+opts.Limit < n {
		end = start + opts.Limit
	}
	return entries[start:end]
}
