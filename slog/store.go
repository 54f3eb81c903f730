package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/modwiki"
)

// Ensure LoggingStore implements modwiki.Store.
var _ modwiki.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store and logs generation swaps. Reads are passed
// through without logging.
type LoggingStore struct {
	next   modwiki.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next modwiki.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// ReplaceAll delegates to the wrapped store and logs the swap.
func (s *LoggingStore) ReplaceAll(ctx context.Context, records []*modwiki.ModRecord, at time.Time) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("store swap",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReplaceAll(ctx, records, at)
}

func (s *LoggingStore) Get(ctx context.Context, id string) (*modwiki.ModRecord, error) {
	return s.next.Get(ctx, id)
}

func (s *LoggingStore) List(ctx context.Context) ([]*modwiki.ModRecord, error) {
	return s.next.List(ctx)
}

func (s *LoggingStore) Freshness(ctx context.Context) (*modwiki.Generation, error) {
	return s.next.Freshness(ctx)
}

func (s *LoggingStore) Close() error {
	return s.next.Close()
}
