package update

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/modwiki"
)

// contentHash fingerprints the scraped fields of a record. LastSeen is
// excluded so that re-scraping unchanged content yields the same hash.
func contentHash(r *modwiki.ModRecord) uint64 {
	d := xxhash.New()
	for _, field := range []string{
		r.ID, r.Name, r.Category, r.Description,
		r.SourceURL, r.WikiURL, r.Author, strings.Join(r.Tags, "\x1f"),
	} {
		_, _ = d.WriteString(field)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// diff compares two record sets by ID and content hash, returning sorted
// IDs.
func diff(prev, next []*modwiki.ModRecord) (added, changed, removed []string) {
	before := make(map[string]uint64, len(prev))
	for _, r := range prev {
		before[r.ID] = contentHash(r)
	}

	after := make(map[string]bool, len(next))
	for _, r := range next {
		after[r.ID] = true
		h, ok := before[r.ID]
		switch {
		case !ok:
			added = append(added, r.ID)
		case h != contentHash(r):
			changed = append(changed, r.ID)
		}
	}

	for _, r := range prev {
		if !after[r.ID] {
			removed = append(removed, r.ID)
		}
	}
	sort.Strings(added)
	sort.Strings(changed)
	sort.Strings(removed)
	return added, changed, removed
}
