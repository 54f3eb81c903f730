package mock

import (
	"context"
	"time"

	"github.com/fwojciec/modwiki"
)

var _ modwiki.Store = (*Store)(nil)

// Store is a mock implementation of modwiki.Store.
type Store struct {
	ReplaceAllFn func(ctx context.Context, records []*modwiki.ModRecord, at time.Time) error
	GetFn        func(ctx context.Context, id string) (*modwiki.ModRecord, error)
	ListFn       func(ctx context.Context) ([]*modwiki.ModRecord, error)
	FreshnessFn  func(ctx context.Context) (*modwiki.Generation, error)
	CloseFn      func() error
}

func (s *Store) ReplaceAll(ctx context.Context, records []*modwiki.ModRecord, at time.Time) error {
	return s.ReplaceAllFn(ctx, records, at)
}

func (s *Store) Get(ctx context.Context, id string) (*modwiki.ModRecord, error) {
	return s.GetFn(ctx, id)
}

func (s *Store) List(ctx context.Context) ([]*modwiki.ModRecord, error) {
	return s.ListFn(ctx)
}

func (s *Store) Freshness(ctx context.Context) (*modwiki.Generation, error) {
	return s.FreshnessFn(ctx)
}

func (s *Store) Close() error {
	return s.CloseFn()
}
