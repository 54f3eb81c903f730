package slog

import (
	"log/slog"

	"github.com/fwojciec/modwiki"
)

// Ensure LoggingExtractor implements modwiki.Extractor.
var _ modwiki.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and logs each skipped entry at debug
// level.
type LoggingExtractor struct {
	next   modwiki.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next modwiki.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(page *modwiki.Page) (*modwiki.ExtractResult, error) {
	result, err := e.next.Extract(page)
	if err != nil {
		e.logger.Warn("extract", "url", page.URL, "kind", page.Kind.String(), "err", err)
		return nil, err
	}
	for _, w := range result.Warnings {
		e.logger.Debug("skipped entry", "url", w.URL, "entry", w.Entry, "reason", w.Reason)
	}
	e.logger.Info("extract",
		"url", page.URL,
		"kind", page.Kind.String(),
		"records", len(result.Records),
		"warnings", len(result.Warnings),
	)
	return result, nil
}
