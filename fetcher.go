package modwiki

import "context"

// Fetcher retrieves raw page content over the network.
// It knows nothing about the content's semantics.
type Fetcher interface {
	// Fetch returns the response body for url. Failures are reported as
	// *NetworkError. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// CategoryLister enumerates the wiki pages filed under a category.
type CategoryLister interface {
	// ListCategory returns the titles of the article pages in category,
	// following the wiki's pagination.
	ListCategory(ctx context.Context, category string) ([]string, error)

	// PageURL returns the URL of the article with the given title.
	PageURL(title string) string
}
