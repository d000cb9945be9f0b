package exports

import (
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/ics"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write the calendar to this file instead of stdout." type:"path"`
	Type   string `short:"t" help:"Only export events of this type."`
	From   string `help:"Only export events overlapping this day or later (YYYY-MM-DD)."`
	To     string `help:"Only export events overlapping this day or earlier (YYYY-MM-DD)."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	events, err := c.selectEvents(ctx)
	if err != nil {
		return err
	}

	if c.Output == "" || c.Output == "-" {
		return ics.Export(ctx.Out(), events)
	}

	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Output, err)
	}
	if err := ics.Export(f, events); err != nil {
		f.Close()
		return fmt.Errorf("failed to export calendar: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}

	logger.Info("Calendar exported", "path", c.Output, "events", len(events))
	fmt.Fprintf(ctx.Out(), "Exported %d events to %s\n", len(events), c.Output)
	return nil
}

func (c *ExportCmd) selectEvents(ctx *cli.Context) ([]models.CalendarEvent, error) {
	events := ctx.Store.List()

	if c.Type != "" {
		typ, err := cli.ParseEventType(c.Type)
		if err != nil {
			return nil, err
		}
		var kept []models.CalendarEvent
		for _, ev := range events {
			if ev.Type == typ {
				kept = append(kept, ev)
			}
		}
		events = kept
	}

	if c.From == "" && c.To == "" {
		return events, nil
	}
	loc := ctx.Location()
	from := time.Time{}
	to := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	if c.From != "" {
		d, err := utils.ParseDateInLocation(c.From, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --from %q (use YYYY-MM-DD)", c.From)
		}
		from = utils.StartOfDay(d)
	}
	if c.To != "" {
		d, err := utils.ParseDateInLocation(c.To, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --to %q (use YYYY-MM-DD)", c.To)
		}
		to = utils.EndOfDay(d)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("--to %s is before --from %s", c.To, c.From)
	}
	return calendar.EventsForRange(events, from, to), nil
}
