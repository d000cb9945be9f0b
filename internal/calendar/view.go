package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/utils"
)

// View is the transient navigation state of a calendar display. It is never persisted.
type View struct {
	Mode           constants.ViewMode
	Selected       time.Time
	FirstDayOfWeek time.Weekday
}

// NewView starts a view on selected
func NewView(mode constants.ViewMode, selected time.Time, firstDay time.Weekday) (*View, error) {
	v := &View{Selected: utils.StartOfDay(selected), FirstDayOfWeek: firstDay}
	if err := v.SetMode(mode); err != nil {
		return nil, err
	}
	return v, nil
}

// SetMode switches between day, week and month
func (v *View) SetMode(mode constants.ViewMode) error {
	switch mode {
	case constants.ViewDay, constants.ViewWeek, constants.ViewMonth:
		v.Mode = mode
		return nil
	}
	return fmt.Errorf("unknown view mode %q", mode)
}

// Today selects the day of now
func (v *View) Today(now time.Time) {
	v.Selected = utils.StartOfDay(now)
}

// Next advances one period
func (v *View) Next() { v.step(1) }

// Prev goes back one period
func (v *View) Prev() { v.step(-1) }

func (v *View) step(n int) {
	switch v.Mode {
	case constants.ViewDay:
		v.Selected = v.Selected.AddDate(0, 0, n)
	case constants.ViewWeek:
		v.Selected = v.Selected.AddDate(0, 0, 7*n)
	case constants.ViewMonth:
		// Clamp to the first so Jan 31 + 1 month does not land in March
		first := time.Date(v.Selected.Year(), v.Selected.Month(), 1, 0, 0, 0, 0, v.Selected.Location())
		v.Selected = first.AddDate(0, n, 0)
	}
}

// Range returns the first and last instant of the visible period, inclusive
func (v *View) Range() (time.Time, time.Time) {
	day := utils.StartOfDay(v.Selected)
	switch v.Mode {
	case constants.ViewWeek:
		offset := (int(day.Weekday()) - int(v.FirstDayOfWeek) + 7) % 7
		start := day.AddDate(0, 0, -offset)
		return start, utils.EndOfDay(start.AddDate(0, 0, 6))
	case constants.ViewMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, utils.EndOfDay(start.AddDate(0, 1, -1))
	default:
		return day, utils.EndOfDay(day)
	}
}

// Days lists the start of every day in the visible period
func (v *View) Days() []time.Time {
	start, end := v.Range()
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
