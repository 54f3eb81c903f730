package update

import (
	"context"
	"net/url"
	"sync"

	"github.com/fwojciec/modwiki"
	"golang.org/x/time/rate"
)

// HostLimiter provides per-host rate limiting using token buckets, so the
// worker pool never exceeds the configured request rate against the wiki.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second to
// each host, with a burst of 1. A non-positive rps disables limiting.
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until a request to rawURL's host is allowed.
// Returns an error if the context is canceled before the wait completes.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}

	h.mu.Lock()
	limiter, ok := h.limiters[host]
	if !ok {
		limit := rate.Limit(h.rps)
		if h.rps <= 0 {
			limit = rate.Inf
		}
		limiter = rate.NewLimiter(limit, 1)
		h.limiters[host] = limiter
	}
	h.mu.Unlock()

	return limiter.Wait(ctx)
}

// Ensure LimitedFetcher implements modwiki.Fetcher at compile time.
var _ modwiki.Fetcher = (*LimitedFetcher)(nil)

// LimitedFetcher waits on a HostLimiter before every fetch. It puts the
// category API calls under the same per-host budget as page fetches.
type LimitedFetcher struct {
	next    modwiki.Fetcher
	limiter *HostLimiter
}

// NewLimitedFetcher wraps next so that every request waits on limiter.
func NewLimitedFetcher(next modwiki.Fetcher, limiter *HostLimiter) *LimitedFetcher {
	return &LimitedFetcher{next: next, limiter: limiter}
}

// Fetch waits for the host's turn, then delegates to the wrapped fetcher.
func (f *LimitedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx, url); err != nil {
		return nil, err
	}
	return f.next.Fetch(ctx, url)
}

// Close closes the wrapped fetcher.
func (f *LimitedFetcher) Close() error {
	return f.next.Close()
}
