package events

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

type EventUpdateCmd struct {
	ID          string  `arg:"" help:"Event ID to update."`
	Title       *string `help:"New title."`
	Description *string `help:"New description."`
	Start       *string `short:"s" help:"New start time."`
	End         *string `short:"e" help:"New end time."`
	AllDay      *bool   `help:"Set or clear the all-day flag."`
	Type        *string `short:"t" help:"New event type."`
	Color       *string `help:"New display color."`
	Completed   *bool   `help:"Set or clear the completed flag."`
	Repeat      string  `short:"r" help:"Replace the repeat frequency (daily|weekly|monthly|yearly)." xor:"repeat"`
	Interval    int     `short:"i" help:"Repeat every N periods." default:"1"`
	Until       string  `help:"Last date the event repeats."`
	NoRepeat    bool    `help:"Remove the repeat rule." xor:"repeat"`
}

func (c *EventUpdateCmd) Run(ctx *cli.Context) error {
	current, ok := ctx.Store.Get(c.ID)
	if !ok {
		return fmt.Errorf("event not found: %s", c.ID)
	}

	patch, err := c.patch(ctx)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		fmt.Fprintln(ctx.Out(), "No changes specified.")
		return nil
	}

	// check the merged result before writing
	merged := current.Clone()
	patch.Apply(&merged)
	if merged.End.Before(merged.Start) {
		return errors.New("update would make the event end before it starts")
	}

	if err := ctx.Store.UpdateEvent(c.ID, patch); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	fmt.Fprintf(ctx.Out(), "Updated event: %s (ID: %s)\n", merged.Title, c.ID)
	return nil
}

func (c *EventUpdateCmd) patch(ctx *cli.Context) (models.EventPatch, error) {
	loc := ctx.Location()
	patch := models.EventPatch{
		Title:       c.Title,
		Description: c.Description,
		AllDay:      c.AllDay,
		Color:       c.Color,
		Completed:   c.Completed,
	}
	if c.Start != nil {
		t, err := utils.ParseTimestamp(*c.Start, loc)
		if err != nil {
			return patch, fmt.Errorf("invalid --start: %w", err)
		}
		patch.Start = &t
	}
	if c.End != nil {
		t, err := utils.ParseTimestamp(*c.End, loc)
		if err != nil {
			return patch, fmt.Errorf("invalid --end: %w", err)
		}
		patch.End = &t
	}
	if c.Type != nil {
		typ, err := cli.ParseEventType(*c.Type)
		if err != nil {
			return patch, err
		}
		patch.Type = &typ
	}
	if c.NoRepeat {
		patch.ClearRecurring = true
	}
	rec, err := cli.ParseRecurrence(c.Repeat, c.Interval, c.Until, loc)
	if err != nil {
		return patch, err
	}
	patch.Recurring = rec
	return patch, nil
}
