package main

import (
	"fmt"

	"github.com/fwojciec/modwiki"
	"github.com/fwojciec/modwiki/update"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	var (
		summary *modwiki.UpdateSummary
		err     error
	)
	if u, ok := deps.Updater.(progressUpdater); ok {
		summary, err = u.UpdateWithProgress(deps.Ctx, func(ev update.ProgressEvent) {
			if ev.Type == update.ProgressFailed {
				fmt.Fprintf(deps.Stderr, "warning: [%d/%d] %s: %s\n", ev.Completed, ev.Total, ev.URL, modwiki.ErrorMessage(ev.Error))
			}
		})
	} else {
		summary, err = deps.Updater.Update(deps.Ctx)
	}
	if err != nil {
		return deps.fail(err)
	}

	if deps.JSON {
		return deps.writeJSON(summary)
	}
	fmt.Fprint(deps.Stdout, modwiki.FormatSummary(summary))
	return nil
}
