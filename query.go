package modwiki

import "context"

// SearchResult is a single ranked search hit.
type SearchResult struct {
	Record *ModRecord `json:"record"`
	Score  float64    `json:"score"`

	// Fuzzy is true when the hit came from approximate name matching
	// because no record contained the query as a substring.
	Fuzzy bool `json:"fuzzy"`
}

// CategoryGroup summarizes one category for a grouped listing.
type CategoryGroup struct {
	Category string       `json:"category"`
	Count    int          `json:"count"`
	Examples []*ModRecord `json:"examples"`
}

// CategoryCount is a category name with the number of records in it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Querier answers read-only queries against the cached records.
// Queries never touch the network.
type Querier interface {
	// Search returns records matching query, best first.
	// Returns EINVALID if query is blank.
	Search(ctx context.Context, query string) ([]*SearchResult, error)

	// Browse groups all records by category.
	Browse(ctx context.Context) ([]*CategoryGroup, error)

	// BrowseCategory returns the records in category sorted by name.
	// An unknown category yields an empty result, not an error.
	BrowseCategory(ctx context.Context, category string) ([]*ModRecord, error)

	// Info resolves name to a single record.
	// Returns ENOTFOUND if no record matches with enough confidence.
	Info(ctx context.Context, name string) (*ModRecord, error)

	// Categories returns every category with its record count.
	Categories(ctx context.Context) ([]CategoryCount, error)
}
