package agenda

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/utils"
)

type LayoutCmd struct {
	Date       string  `arg:"" optional:"" help:"Day to lay out (today, tomorrow, yesterday or YYYY-MM-DD)."`
	HourHeight float64 `help:"Pixels per hour. Overrides hour_height."`
}

func (c *LayoutCmd) Run(ctx *cli.Context) error {
	return c.layout(ctx, time.Now())
}

// layout prints the grid placement of each timed event on the day.
// Recurring events are expanded so every occurrence gets a box.
func (c *LayoutCmd) layout(ctx *cli.Context, now time.Time) error {
	loc := ctx.Location()
	prefs := ctx.Store.Preferences()

	day, err := cli.ParseDay(c.Date, now, loc)
	if err != nil {
		return err
	}

	hourHeight := c.HourHeight
	if hourHeight <= 0 && ctx.Config != nil {
		hourHeight = ctx.Config.HourHeight
	}
	grid := calendar.NewGridLayout(hourHeight, prefs.WorkingHours.Start)

	from, to := utils.StartOfDay(day), utils.EndOfDay(day)
	events := calendar.EventsForDate(calendar.ExpandRange(ctx.Store.List(), from, to), day)

	out := ctx.Out()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Grid for %s (%02d:00 at top, %.0fpx per hour)",
		day.Format("2006-01-02"), grid.GridStartHour, grid.HourHeight)))

	placed := 0
	for _, ev := range events {
		if ev.AllDay {
			continue
		}
		box := grid.Position(ev.Start.In(loc), ev.End.In(loc))
		span := fmt.Sprintf("%s-%s", ev.Start.In(loc).Format("15:04"), ev.End.In(loc).Format("15:04"))
		fmt.Fprintf(out, "  %s top=%.1fpx height=%.1fpx  %s\n",
			timeStyle.Render(span), box.Top, box.Height, eventStyle(ev, prefs).Render(ev.Title))
		placed++
	}
	if placed == 0 {
		fmt.Fprintln(out, "No timed events.")
	}
	return nil
}
