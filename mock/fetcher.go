package mock

import (
	"context"

	"github.com/fwojciec/modwiki"
)

var _ modwiki.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of modwiki.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) ([]byte, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ modwiki.CategoryLister = (*CategoryLister)(nil)

// CategoryLister is a mock implementation of modwiki.CategoryLister.
type CategoryLister struct {
	ListCategoryFn func(ctx context.Context, category string) ([]string, error)
	PageURLFn      func(title string) string
}

func (l *CategoryLister) ListCategory(ctx context.Context, category string) ([]string, error) {
	return l.ListCategoryFn(ctx, category)
}

func (l *CategoryLister) PageURL(title string) string {
	return l.PageURLFn(title)
}
