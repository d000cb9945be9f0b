package events

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

type EventAddCmd struct {
	Title       string        `arg:"" help:"Event title."`
	Start       string        `short:"s" help:"Start time (RFC3339, 'YYYY-MM-DD HH:MM' or YYYY-MM-DD)." required:""`
	End         string        `short:"e" help:"End time. Defaults to start plus --duration."`
	Duration    time.Duration `short:"d" help:"Duration when --end is omitted." default:"1h"`
	AllDay      bool          `help:"Mark as an all-day event."`
	Type        string        `short:"t" help:"Event type (task|studySession|pomodoro|exam)." default:"studySession"`
	Description string        `help:"Event description."`
	Color       string        `help:"Display color. Defaults to the color for the type."`
	Linked      string        `help:"Linked task or session id."`
	Repeat      string        `short:"r" help:"Repeat frequency (daily|weekly|monthly|yearly)."`
	Interval    int           `short:"i" help:"Repeat every N periods." default:"1"`
	Until       string        `help:"Last date the event repeats."`
	Reminder    []int         `help:"Reminder minutes before start (repeatable)."`
}

func (c *EventAddCmd) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if c.Interval < 1 {
		return fmt.Errorf("interval must be at least 1")
	}
	for _, m := range c.Reminder {
		if m < 0 {
			return fmt.Errorf("reminder minutes must not be negative")
		}
	}
	return nil
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	ev, err := c.build(ctx.Location())
	if err != nil {
		return err
	}

	id, err := ctx.Store.AddEvent(ev)
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}

	fmt.Fprintf(ctx.Out(), "Added event: %s (ID: %s)\n", ev.Title, id)
	return nil
}

func (c *EventAddCmd) build(loc *time.Location) (models.CalendarEvent, error) {
	typ, err := cli.ParseEventType(c.Type)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	start, err := utils.ParseTimestamp(c.Start, loc)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("invalid --start: %w", err)
	}

	var end time.Time
	switch {
	case c.End != "":
		end, err = utils.ParseTimestamp(c.End, loc)
		if err != nil {
			return models.CalendarEvent{}, fmt.Errorf("invalid --end: %w", err)
		}
	case c.AllDay:
		end = utils.EndOfDay(start)
	default:
		end = start.Add(c.Duration)
	}
	if c.AllDay {
		start = utils.StartOfDay(start)
	}
	if end.Before(start) {
		return models.CalendarEvent{}, fmt.Errorf("end (%s) is before start (%s)", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	rec, err := cli.ParseRecurrence(c.Repeat, c.Interval, c.Until, loc)
	if err != nil {
		return models.CalendarEvent{}, err
	}

	ev := models.CalendarEvent{
		Title:       c.Title,
		Description: c.Description,
		Start:       start,
		End:         end,
		AllDay:      c.AllDay,
		Type:        typ,
		Color:       c.Color,
		LinkedID:    c.Linked,
		Recurring:   rec,
	}
	if typ == constants.EventTypeTask || typ == constants.EventTypePomodoro {
		ev.Completed = models.Bool(false)
	}
	for _, m := range c.Reminder {
		ev.Reminders = append(ev.Reminders, models.Reminder{Minutes: m})
	}
	return ev, nil
}
