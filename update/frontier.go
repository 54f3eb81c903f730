package update

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Frontier configuration for page discovery.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 1e-6
)

// Frontier records which page URLs have already been scheduled so that a
// mod listed under several categories is fetched once.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewWithEstimates(n, fpRate)}
}

// Push marks url as scheduled. Returns false if it has already been seen.
// URLs differing only by fragment are considered duplicates.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := stripFragment(url)
	if f.seen.TestString(key) {
		return false
	}
	f.seen.AddString(key)
	return true
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
