package main

import (
	"fmt"

	"github.com/fwojciec/modwiki"
)

// Run executes the categories command.
func (c *CategoriesCmd) Run(deps *Dependencies) error {
	if err := deps.checkCache(); err != nil {
		return err
	}

	counts, err := deps.Querier.Categories(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}

	if deps.JSON {
		if counts == nil {
			counts = []modwiki.CategoryCount{}
		}
		return deps.writeJSON(counts)
	}

	for _, cc := range counts {
		fmt.Fprintf(deps.Stdout, "%-32s %d\n", cc.Category, cc.Count)
	}
	return nil
}
