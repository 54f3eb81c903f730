package mock

import (
	"context"

	"github.com/fwojciec/modwiki"
)

var _ modwiki.Updater = (*Updater)(nil)

// Updater is a mock implementation of modwiki.Updater.
type Updater struct {
	UpdateFn func(ctx context.Context) (*modwiki.UpdateSummary, error)
}

func (u *Updater) Update(ctx context.Context) (*modwiki.UpdateSummary, error) {
	return u.UpdateFn(ctx)
}
