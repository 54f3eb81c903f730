// Package update refreshes the mod cache from the wiki. It discovers
// pages, fetches them with a bounded worker pool, extracts records,
// diffs them against the previous generation and swaps the result into
// the Store.
package update

import (
	"context"
	"sort"
	"time"

	"github.com/fwojciec/modwiki"
	"golang.org/x/sync/errgroup"
)

// Ensure Updater implements modwiki.Updater at compile time.
var _ modwiki.Updater = (*Updater)(nil)

// DefaultConcurrency is the number of pages fetched in parallel.
const DefaultConcurrency = 6

// Updater orchestrates a refresh cycle.
type Updater struct {
	Fetcher     modwiki.Fetcher
	Lister      modwiki.CategoryLister
	Extractor   modwiki.Extractor
	Store       modwiki.Store
	RateLimiter *HostLimiter

	// ListPages are URLs of pages listing many mods under headings.
	ListPages []string
	// Categories are wiki categories whose member articles are mod pages.
	Categories []string

	Concurrency int
	Now         func() time.Time
}

// ProgressEvent reports progress during a refresh.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting refresh progress.
type ProgressFunc func(event ProgressEvent)

// target is a page scheduled for fetching.
type target struct {
	url      string
	kind     modwiki.PageKind
	title    string
	category string
}

// fetchResult holds the outcome of fetching a single target.
type fetchResult struct {
	position int
	body     []byte
	err      error
}

// Update runs a refresh cycle without progress reporting.
func (u *Updater) Update(ctx context.Context) (*modwiki.UpdateSummary, error) {
	return u.UpdateWithProgress(ctx, nil)
}

// UpdateWithProgress runs a refresh cycle. The progress callback, if
// provided, is called from the calling goroutine as pages complete.
func (u *Updater) UpdateWithProgress(ctx context.Context, progress ProgressFunc) (*modwiki.UpdateSummary, error) {
	if len(u.ListPages) == 0 && len(u.Categories) == 0 {
		return nil, modwiki.Errorf(modwiki.EINVALID, "no wiki pages or categories configured")
	}

	previous, err := u.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &modwiki.UpdateSummary{}
	var firstErr error
	fail := func(what string, err error) {
		summary.Failed++
		summary.Warnings = append(summary.Warnings, what+": "+errText(err))
		if firstErr == nil {
			firstErr = err
		}
	}

	targets, err := u.discover(ctx, summary, fail)
	if err != nil {
		return nil, err
	}

	results := u.fetchAll(ctx, targets, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary.Pages += len(targets)
	for i, r := range results {
		if r.err != nil {
			fail(targets[i].url, r.err)
		}
	}
	if summary.Pages > 0 && summary.Failed == summary.Pages {
		return nil, modwiki.Errorf(modwiki.ENETWORK, "all %d wiki requests failed; last good data kept: %s",
			summary.Pages, errText(firstErr))
	}

	now := u.now()
	records := u.extractAll(targets, results, now, summary, fail)
	if summary.Pages > 0 && summary.Failed == summary.Pages {
		return nil, modwiki.Errorf(modwiki.EINVALID, "no wiki page could be read; last good data kept: %s",
			errText(firstErr))
	}

	summary.Added, summary.Changed, summary.Removed = diff(previous, records)
	summary.Total = len(records)
	summary.At = now

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := u.Store.ReplaceAll(ctx, records, now); err != nil {
		return nil, err
	}

	return summary, nil
}

// discover builds the fetch list: configured list pages first, then the
// member articles of each category. Each category listing counts as one
// attempted page.
func (u *Updater) discover(ctx context.Context, summary *modwiki.UpdateSummary, fail func(string, error)) ([]target, error) {
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	var targets []target

	for _, page := range u.ListPages {
		if frontier.Push(page) {
			targets = append(targets, target{url: page, kind: modwiki.PageList})
		}
	}

	for _, category := range u.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Pages++

		titles, err := u.Lister.ListCategory(ctx, category)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			fail("category "+category, err)
			continue
		}

		for _, title := range titles {
			pageURL := u.Lister.PageURL(title)
			if frontier.Push(pageURL) {
				targets = append(targets, target{
					url:      pageURL,
					kind:     modwiki.PageArticle,
					title:    title,
					category: category,
				})
			}
		}
	}

	return targets, nil
}

// fetchAll fetches every target with at most Concurrency requests in
// flight. Results are returned in target order.
func (u *Updater) fetchAll(ctx context.Context, targets []target, progress ProgressFunc) []fetchResult {
	concurrency := u.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan fetchResult, len(targets))
	total := len(targets)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, t := range targets {
			g.Go(func() error {
				resultCh <- u.fetchOne(ctx, i, t.url)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]fetchResult, len(targets))
	completed := 0
	for result := range resultCh {
		completed++
		results[result.position] = result

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			URL:       targets[result.position].url,
		}
		if result.err != nil {
			event.Type = ProgressFailed
			event.Error = result.err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return results
}

func (u *Updater) fetchOne(ctx context.Context, position int, url string) fetchResult {
	result := fetchResult{position: position}

	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}
	if u.RateLimiter != nil {
		if err := u.RateLimiter.Wait(ctx, url); err != nil {
			result.err = err
			return result
		}
	}

	result.body, result.err = u.Fetcher.Fetch(ctx, url)
	return result
}

// extractAll extracts records from fetched pages in discovery order and
// merges them by ID. A record seen again later replaces the earlier one.
// A page that cannot be extracted counts as failed.
func (u *Updater) extractAll(targets []target, results []fetchResult, now time.Time, summary *modwiki.UpdateSummary, fail func(string, error)) []*modwiki.ModRecord {
	byID := make(map[string]*modwiki.ModRecord)

	for i, t := range targets {
		if results[i].err != nil {
			continue
		}

		extracted, err := u.Extractor.Extract(&modwiki.Page{
			URL:      t.url,
			Kind:     t.kind,
			Title:    t.title,
			Category: t.category,
			HTML:     results[i].body,
		})
		if err != nil {
			fail(t.url, err)
			continue
		}

		for _, w := range extracted.Warnings {
			summary.Warnings = append(summary.Warnings, w.String())
		}
		for _, r := range extracted.Records {
			r.LastSeen = now
			byID[r.ID] = r
		}
	}

	records := make([]*modwiki.ModRecord, 0, len(byID))
	for _, r := range byID {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// errText returns the message of application errors and the full text of
// anything else.
func errText(err error) string {
	if modwiki.ErrorCode(err) == modwiki.EINTERNAL {
		return err.Error()
	}
	return modwiki.ErrorMessage(err)
}

func (u *Updater) now() time.Time {
	if u.Now != nil {
		return u.Now().UTC()
	}
	return time.Now().UTC()
}
