package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/modwiki"
	"github.com/fwojciec/modwiki/update"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Store   modwiki.Store
	Querier modwiki.Querier
	Updater modwiki.Updater

	// JSON switches command output to indented JSON.
	JSON bool
	// StaleAfter is the cache age after which queries print a refresh hint.
	// Zero disables the hint.
	StaleAfter time.Duration
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	JSON    bool   `help:"Print results as JSON"`
	DB      string `name:"db" help:"Cache location (overrides db_path)" type:"path"`
	Config  string `help:"Configuration file" type:"path"`
	Verbose bool   `short:"v" help:"Log fetches and store writes to stderr"`

	Update     UpdateCmd     `cmd:"" help:"Refresh the local mod cache from the wiki"`
	Search     SearchCmd     `cmd:"" help:"Search mods by name, description, author or tag"`
	Browse     BrowseCmd     `cmd:"" help:"Browse mods by category"`
	Info       InfoCmd       `cmd:"" help:"Show details for one mod"`
	Categories CategoriesCmd `cmd:"" help:"List categories with mod counts"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Text to search for"`
	Limit int    `short:"n" default:"20" help:"Maximum number of results"`
}

// BrowseCmd is the "browse" subcommand.
type BrowseCmd struct {
	Category string `arg:"" optional:"" help:"Category to list (e.g. content, joker, qol)"`
}

// InfoCmd is the "info" subcommand.
type InfoCmd struct {
	Name string `arg:"" help:"Mod name or ID"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct{}

// progressUpdater is implemented by updaters that can report per-page
// progress.
type progressUpdater interface {
	UpdateWithProgress(ctx context.Context, progress update.ProgressFunc) (*modwiki.UpdateSummary, error)
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// fail prints err the way every command reports errors and returns it.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", modwiki.ErrorMessage(err))
	return err
}

// checkCache makes sure the cache has been populated and prints a hint
// when it is older than StaleAfter. Queries never refresh on their own.
func (d *Dependencies) checkCache() error {
	gen, err := d.Store.Freshness(d.Ctx)
	if modwiki.ErrorCode(err) == modwiki.ENOTFOUND {
		fmt.Fprintln(d.Stderr, "error: no mods cached yet. Run 'modwiki update' to fetch the mod list from the wiki.")
		return modwiki.Errorf(modwiki.ENOTFOUND, "mod cache is empty")
	}
	if err != nil {
		return d.fail(err)
	}

	now := d.now()
	if d.StaleAfter > 0 && gen.Age(now) > d.StaleAfter {
		fmt.Fprintf(d.Stderr, "Hint: mod list was last updated %s. Run 'modwiki update' to refresh.\n",
			humanize.RelTime(gen.UpdatedAt, now, "ago", "from now"))
	}
	return nil
}

// writeJSON prints v as indented JSON on stdout.
func (d *Dependencies) writeJSON(v any) error {
	enc := json.NewEncoder(d.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return d.fail(modwiki.Errorf(modwiki.EINTERNAL, "failed to encode output: %v", err))
	}
	return nil
}
