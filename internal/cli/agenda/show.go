package agenda

import (
	"fmt"
	"io"
	"time"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

type ShowCmd struct {
	View   string `short:"v" help:"Period to show (day, week, month). Defaults to the default_view preference."`
	Date   string `arg:"" optional:"" help:"Day inside the period (today, tomorrow, yesterday or YYYY-MM-DD)."`
	Expand bool   `short:"e" help:"Expand recurring events into their occurrences."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	return c.show(ctx, time.Now())
}

func (c *ShowCmd) show(ctx *cli.Context, now time.Time) error {
	loc := ctx.Location()
	prefs := ctx.Store.Preferences()

	day, err := cli.ParseDay(c.Date, now, loc)
	if err != nil {
		return err
	}
	mode := prefs.DefaultView
	if c.View != "" {
		mode = constants.ViewMode(c.View)
	}
	view, err := calendar.NewView(mode, day, prefs.FirstDayOfWeek)
	if err != nil {
		return err
	}

	from, to := view.Range()
	var events []models.CalendarEvent
	if c.Expand {
		events = calendar.ExpandRange(ctx.Store.List(), from, to)
	} else {
		events = calendar.EventsForRange(ctx.Store.List(), from, to)
	}

	out := ctx.Out()
	fmt.Fprintln(out, headerStyle.Render(periodTitle(view.Mode, from, to)))
	if len(events) == 0 {
		fmt.Fprintln(out, "No events scheduled.")
		return nil
	}

	for _, d := range view.Days() {
		dayEvents := calendar.EventsForDate(events, d)
		if len(dayEvents) == 0 {
			continue
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, dayStyle.Render(d.Format("Mon 2006-01-02")))
		for _, ev := range dayEvents {
			printEvent(out, ev, prefs, loc)
		}
	}
	return nil
}

func periodTitle(mode constants.ViewMode, from, to time.Time) string {
	switch mode {
	case constants.ViewMonth:
		return from.Format("January 2006")
	case constants.ViewWeek:
		return fmt.Sprintf("Week of %s - %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	default:
		return from.Format("Monday, 2006-01-02")
	}
}

func printEvent(out io.Writer, ev models.CalendarEvent, prefs models.UserPreferences, loc *time.Location) {
	span := "all day"
	if !ev.AllDay {
		span = fmt.Sprintf("%s-%s", ev.Start.In(loc).Format("15:04"), ev.End.In(loc).Format("15:04"))
	}
	line := fmt.Sprintf("  %s %s [%s]", timeStyle.Render(span), eventStyle(ev, prefs).Render(ev.Title), ev.Type)
	if ev.IsCompleted() {
		line += " " + doneStyle.Render("done")
	}
	if ev.Recurring != nil {
		line += " (" + cli.FormatRecurrence(ev.Recurring) + ")"
	}
	fmt.Fprintln(out, line)
}
