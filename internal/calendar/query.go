package calendar

import (
	"time"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

// EventsForDate returns the events that belong to date's calendar day, in input order.
//
// An all-day event matches only the day of its start, so a multi-day all-day
// event does not appear on its later days. A timed event matches when its
// [start, end] intersects 00:00:00.000 to 23:59:59.999 of the day.
func EventsForDate(events []models.CalendarEvent, date time.Time) []models.CalendarEvent {
	dayStart := utils.StartOfDay(date)
	dayEnd := utils.EndOfDay(date)

	var out []models.CalendarEvent
	for _, ev := range events {
		if ev.AllDay {
			if utils.SameDay(ev.Start, date) {
				out = append(out, ev)
			}
			continue
		}
		if Overlaps(ev, dayStart, dayEnd) {
			out = append(out, ev)
		}
	}
	return out
}

// EventsForRange returns the events overlapping [rangeStart, rangeEnd], both ends inclusive
func EventsForRange(events []models.CalendarEvent, rangeStart, rangeEnd time.Time) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, ev := range events {
		if Overlaps(ev, rangeStart, rangeEnd) {
			out = append(out, ev)
		}
	}
	return out
}

// Overlaps reports start <= rangeEnd && end >= rangeStart
func Overlaps(ev models.CalendarEvent, rangeStart, rangeEnd time.Time) bool {
	return !ev.Start.After(rangeEnd) && !ev.End.Before(rangeStart)
}
