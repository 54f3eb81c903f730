// Package slog provides logging decorators for modwiki services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/modwiki"
)

// Ensure LoggingFetcher implements modwiki.Fetcher.
var _ modwiki.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   modwiki.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next modwiki.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (body []byte, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingCategoryLister implements modwiki.CategoryLister.
var _ modwiki.CategoryLister = (*LoggingCategoryLister)(nil)

// LoggingCategoryLister wraps a CategoryLister with logging.
type LoggingCategoryLister struct {
	next   modwiki.CategoryLister
	logger *slog.Logger
}

// NewLoggingCategoryLister creates a new LoggingCategoryLister.
func NewLoggingCategoryLister(next modwiki.CategoryLister, logger *slog.Logger) *LoggingCategoryLister {
	return &LoggingCategoryLister{next: next, logger: logger}
}

// ListCategory delegates to the wrapped lister and logs the listing.
func (l *LoggingCategoryLister) ListCategory(ctx context.Context, category string) (titles []string, err error) {
	defer func(begin time.Time) {
		l.logger.Info("category listing",
			"category", category,
			"count", len(titles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.ListCategory(ctx, category)
}

// PageURL delegates to the wrapped lister.
func (l *LoggingCategoryLister) PageURL(title string) string {
	return l.next.PageURL(title)
}
