package main_test

import (
	"bytes"
	"context"
	"time"

	"github.com/fwojciec/modwiki"
	main "github.com/fwojciec/modwiki/cmd/modwiki"
	"github.com/fwojciec/modwiki/mock"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// storeUpdatedAt returns a store whose only populated method is Freshness.
func storeUpdatedAt(at time.Time) *mock.Store {
	return &mock.Store{
		FreshnessFn: func(_ context.Context) (*modwiki.Generation, error) {
			return &modwiki.Generation{ID: "gen-1", UpdatedAt: at, Count: 3}, nil
		},
	}
}

func newDeps(store modwiki.Store, querier modwiki.Querier) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:        context.Background(),
		Stdout:     stdout,
		Stderr:     stderr,
		Store:      store,
		Querier:    querier,
		StaleAfter: 24 * time.Hour,
		Now:        func() time.Time { return testNow },
	}, stdout, stderr
}

func jokerPack() *modwiki.ModRecord {
	return &modwiki.ModRecord{
		ID:          "joker pack",
		Name:        "Joker Pack",
		Category:    "Joker Mods",
		Description: "Adds 40 new jokers.",
		SourceURL:   "https://github.com/example/JokerPack",
		WikiURL:     "https://wiki.test/wiki/Joker_Pack",
		Author:      "Jimbo",
	}
}

func deckPack() *modwiki.ModRecord {
	return &modwiki.ModRecord{
		ID:          "deck pack",
		Name:        "Deck Pack",
		Category:    "Content Mods",
		Description: "New decks.",
		WikiURL:     "https://wiki.test/wiki/Deck_Pack",
	}
}
