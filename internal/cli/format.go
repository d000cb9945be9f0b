package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

// ParseDay resolves "", "today", "tomorrow", "yesterday" or YYYY-MM-DD to the start of that day
func ParseDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	today := utils.StartOfDay(now.In(loc))
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	d, err := utils.ParseDateInLocation(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return d, nil
}

// ParseEventType accepts a type name case-insensitively
func ParseEventType(s string) (constants.EventType, error) {
	for _, t := range constants.EventTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	names := make([]string, len(constants.EventTypes))
	for i, t := range constants.EventTypes {
		names[i] = string(t)
	}
	return "", fmt.Errorf("invalid event type %q (expected one of %s)", s, strings.Join(names, ", "))
}

// ParseRecurrence builds a recurrence from CLI flags; an empty frequency means none
func ParseRecurrence(freq string, interval int, until string, loc *time.Location) (*models.Recurrence, error) {
	if freq == "" {
		return nil, nil
	}
	f := constants.Frequency(strings.ToLower(freq))
	switch f {
	case constants.FrequencyDaily, constants.FrequencyWeekly, constants.FrequencyMonthly, constants.FrequencyYearly:
	default:
		return nil, fmt.Errorf("invalid repeat frequency %q (expected daily, weekly, monthly or yearly)", freq)
	}
	if interval < 1 {
		interval = 1
	}
	rec := &models.Recurrence{Frequency: f, Interval: interval}
	if until != "" {
		t, err := utils.ParseTimestamp(until, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --until: %w", err)
		}
		rec.Until = &t
	}
	return rec, nil
}

// FormatSpan renders the time part of an event for listings
func FormatSpan(ev models.CalendarEvent) string {
	if ev.AllDay {
		if utils.SameDay(ev.Start, ev.End) {
			return ev.Start.Format(constants.DateFormat) + " all day"
		}
		return ev.Start.Format(constants.DateFormat) + " - " + ev.End.Format(constants.DateFormat) + " all day"
	}
	if utils.SameDay(ev.Start, ev.End) {
		return ev.Start.Format(constants.DateFormat+" "+constants.TimeFormat) + "-" + ev.End.Format(constants.TimeFormat)
	}
	return ev.Start.Format(constants.DateFormat+" "+constants.TimeFormat) + " - " + ev.End.Format(constants.DateFormat+" "+constants.TimeFormat)
}

// FormatRecurrence formats a recurrence into a human-readable string
func FormatRecurrence(rec *models.Recurrence) string {
	if rec == nil {
		return ""
	}
	var s string
	if rec.Interval > 1 {
		unit := map[constants.Frequency]string{
			constants.FrequencyDaily:   "days",
			constants.FrequencyWeekly:  "weeks",
			constants.FrequencyMonthly: "months",
			constants.FrequencyYearly:  "years",
		}[rec.Frequency]
		s = fmt.Sprintf("every %d %s", rec.Interval, unit)
	} else {
		s = string(rec.Frequency)
	}
	if rec.Until != nil {
		s += " until " + rec.Until.Format(constants.DateFormat)
	}
	return s
}
