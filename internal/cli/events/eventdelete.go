package events

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
)

type EventDeleteCmd struct {
	ID string `arg:"" help:"Event ID to delete."`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	ev, ok := ctx.Store.Get(c.ID)
	if !ok {
		return fmt.Errorf("event not found: %s", c.ID)
	}

	if err := ctx.Store.DeleteEvent(c.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	fmt.Fprintf(ctx.Out(), "Deleted event: %s (ID: %s)\n", ev.Title, c.ID)
	return nil
}
