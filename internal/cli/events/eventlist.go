package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

type EventListCmd struct {
	Type    string `short:"t" help:"Only show events of this type."`
	From    string `help:"Only show events overlapping this range (start)."`
	To      string `help:"Only show events overlapping this range (end)."`
	JSON    bool   `help:"Print events as JSON."`
	ShowIDs bool   `help:"Show event IDs." name:"show-ids"`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	events, err := c.filter(ctx.Store.List(), ctx.Location())
	if err != nil {
		return err
	}

	out := ctx.Out()
	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "No events found")
		return nil
	}

	fmt.Fprintln(out, "Events:")
	for _, ev := range events {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", ev.ID)
		}
		status := ""
		if ev.IsCompleted() {
			status = " [done]"
		}
		fmt.Fprintf(out, "  [%s] %s%s%s - %s\n", ev.Type, ev.Title, idStr, status, cli.FormatSpan(ev))
		if rec := cli.FormatRecurrence(ev.Recurring); rec != "" {
			fmt.Fprintf(out, "      Repeats: %s\n", rec)
		}
	}
	return nil
}

func (c *EventListCmd) filter(events []models.CalendarEvent, loc *time.Location) ([]models.CalendarEvent, error) {
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
	from := time.Time{}
	to := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	if c.From != "" {
		t, err := utils.ParseTimestamp(c.From, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --from: %w", err)
		}
		from = t
	}
	if c.To != "" {
		t, err := utils.ParseTimestamp(c.To, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --to: %w", err)
		}
		// a bare date means the whole day
		if len(c.To) == len("2006-01-02") {
			t = utils.EndOfDay(t)
		}
		to = t
	}
	return calendar.EventsForRange(events, from, to), nil
}
