package main

import (
	"fmt"

	"github.com/fwojciec/modwiki"
)

// Run executes the browse command. Without a category it prints every
// category with a few example mods.
func (c *BrowseCmd) Run(deps *Dependencies) error {
	if err := deps.checkCache(); err != nil {
		return err
	}

	if c.Category == "" {
		return c.runOverview(deps)
	}

	records, err := deps.Querier.BrowseCategory(deps.Ctx, c.Category)
	if err != nil {
		return deps.fail(err)
	}

	if deps.JSON {
		if records == nil {
			records = []*modwiki.ModRecord{}
		}
		return deps.writeJSON(records)
	}

	if len(records) == 0 {
		fmt.Fprintf(deps.Stdout, "No mods in category %q. Use 'modwiki categories' to see available categories.\n", c.Category)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%s (%d mods):\n\n", records[0].Category, len(records))
	for i, r := range records {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprint(deps.Stdout, modwiki.FormatListing(r))
	}
	return nil
}

func (c *BrowseCmd) runOverview(deps *Dependencies) error {
	groups, err := deps.Querier.Browse(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}

	if deps.JSON {
		if groups == nil {
			groups = []*modwiki.CategoryGroup{}
		}
		return deps.writeJSON(groups)
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "%s (%d mods)\n", g.Category, g.Count)
		for _, r := range g.Examples {
			fmt.Fprintf(deps.Stdout, "  - %s\n", r.Name)
		}
		if g.Count > len(g.Examples) {
			fmt.Fprintf(deps.Stdout, "  ... and %d more\n", g.Count-len(g.Examples))
		}
	}
	return nil
}
