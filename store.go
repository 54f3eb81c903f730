package modwiki

import (
	"context"
	"time"
)

// Generation describes the snapshot currently held by a Store.
type Generation struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
	Count     int       `json:"count"`
}

// Age returns how long ago the generation was written.
func (g *Generation) Age(now time.Time) time.Duration {
	return now.Sub(g.UpdatedAt)
}

// Store is the local, durable cache of mod records. It is the only
// component that touches persistent state.
type Store interface {
	// ReplaceAll atomically swaps the stored records for records and
	// records at as the freshness timestamp. Readers observe either the
	// previous generation or the new one, never a mix. On error the
	// previous generation is left intact.
	ReplaceAll(ctx context.Context, records []*ModRecord, at time.Time) error

	// Get returns the record with the given ID.
	// Returns ENOTFOUND if no such record exists.
	Get(ctx context.Context, id string) (*ModRecord, error)

	// List returns all records ordered by ID.
	List(ctx context.Context) ([]*ModRecord, error)

	// Freshness returns the current generation.
	// Returns ENOTFOUND if the store has never been populated.
	Freshness(ctx context.Context) (*Generation, error)

	// Close releases the underlying resources.
	Close() error
}
