package main

import (
	"fmt"

	"github.com/fwojciec/modwiki"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if err := deps.checkCache(); err != nil {
		return err
	}

	results, err := deps.Querier.Search(deps.Ctx, c.Query)
	if err != nil {
		return deps.fail(err)
	}
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}

	if deps.JSON {
		if results == nil {
			results = []*modwiki.SearchResult{}
		}
		return deps.writeJSON(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No mods match %q. Try 'modwiki browse' to see all categories.\n", c.Query)
		return nil
	}

	if results[0].Fuzzy {
		fmt.Fprintf(deps.Stdout, "No exact matches for %q. Closest names:\n\n", c.Query)
	} else {
		fmt.Fprintf(deps.Stdout, "Found %d mods matching %q:\n\n", len(results), c.Query)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprint(deps.Stdout, modwiki.FormatListing(r.Record))
	}
	return nil
}
