package modwiki

import (
	"context"
	"time"
)

// UpdateSummary reports what a refresh cycle changed.
// Added, Changed and Removed hold record IDs in sorted order.
type UpdateSummary struct {
	Added    []string  `json:"added"`
	Changed  []string  `json:"changed"`
	Removed  []string  `json:"removed"`
	Warnings []string  `json:"warnings"`
	Total    int       `json:"total"`
	Pages    int       `json:"pages"`
	Failed   int       `json:"failed"`
	At       time.Time `json:"at"`
}

// Unchanged reports whether the refresh left the record set as it was.
func (s *UpdateSummary) Unchanged() bool {
	return len(s.Added) == 0 && len(s.Changed) == 0 && len(s.Removed) == 0
}

// Updater refreshes the Store from the wiki.
type Updater interface {
	// Update fetches, extracts and swaps in a new generation of records.
	// Partial page failures are reported in the summary's warnings; the
	// update fails as a whole only when every page fails, the context is
	// cancelled, or the Store cannot be written. On failure the previous
	// generation is left untouched.
	Update(ctx context.Context) (*UpdateSummary, error)
}
