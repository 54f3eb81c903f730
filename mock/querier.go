package mock

import (
	"context"

	"github.com/fwojciec/modwiki"
)

var _ modwiki.Querier = (*Querier)(nil)

// Querier is a mock implementation of modwiki.Querier.
type Querier struct {
	SearchFn         func(ctx context.Context, query string) ([]*modwiki.SearchResult, error)
	BrowseFn         func(ctx context.Context) ([]*modwiki.CategoryGroup, error)
	BrowseCategoryFn func(ctx context.Context, category string) ([]*modwiki.ModRecord, error)
	InfoFn           func(ctx context.Context, name string) (*modwiki.ModRecord, error)
	CategoriesFn     func(ctx context.Context) ([]modwiki.CategoryCount, error)
}

func (q *Querier) Search(ctx context.Context, query string) ([]*modwiki.SearchResult, error) {
	return q.SearchFn(ctx, query)
}

func (q *Querier) Browse(ctx context.Context) ([]*modwiki.CategoryGroup, error) {
	return q.BrowseFn(ctx)
}

func (q *Querier) BrowseCategory(ctx context.Context, category string) ([]*modwiki.ModRecord, error) {
	return q.BrowseCategoryFn(ctx, category)
}

func (q *Querier) Info(ctx context.Context, name string) (*modwiki.ModRecord, error) {
	return q.InfoFn(ctx, name)
}

func (q *Querier) Categories(ctx context.Context) ([]modwiki.CategoryCount, error) {
	return q.CategoriesFn(ctx)
}
