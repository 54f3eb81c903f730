package main

import (
	"fmt"

	"github.com/fwojciec/modwiki"
)

// Run executes the info command.
func (c *InfoCmd) Run(deps *Dependencies) error {
	if err := deps.checkCache(); err != nil {
		return err
	}

	record, err := deps.Querier.Info(deps.Ctx, c.Name)
	if err != nil {
		err = deps.fail(err)
		if modwiki.ErrorCode(err) == modwiki.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "Try 'modwiki search %q'\n", c.Name)
		}
		return err
	}

	if deps.JSON {
		return deps.writeJSON(record)
	}
	fmt.Fprint(deps.Stdout, modwiki.FormatRecord(record))
	return nil
}
