package ics

import (
	"fmt"
	"io"
	"strings"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

// Imported is a VEVENT converted to a calendar event. UID is the source
// identifier; Event.ID is left empty for the store to assign.
type Imported struct {
	UID   string
	Event models.CalendarEvent
}

// Import parses every VEVENT in r. Events without a usable DTSTART are
// skipped and logged.
func Import(r io.Reader) ([]Imported, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var out []Imported
	for _, ve := range cal.Events() {
		imp, err := convert(ve)
		if err != nil {
			logger.Warn("Skipping VEVENT", "uid", ve.Id(), "error", err)
			continue
		}
		out = append(out, imp)
	}
	logger.Debug("ICS import parsed", "events", len(out))
	return out, nil
}

func convert(ve *ical.VEvent) (Imported, error) {
	imp := Imported{UID: ve.Id()}
	ev := &imp.Event

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	ev.Type = constants.EventTypeStudySession
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		if t, ok := eventTypeFor(p.Value); ok {
			ev.Type = t
		}
	}

	ev.AllDay = isAllDay(ve)
	if ev.AllDay {
		start, err := ve.GetAllDayStartAt()
		if err != nil {
			return imp, err
		}
		ev.Start = utils.StartOfDay(start)
		// DTEND is exclusive for date values
		last := ev.Start
		if end, err := ve.GetAllDayEndAt(); err == nil && end.After(ev.Start) {
			last = end.AddDate(0, 0, -1)
		}
		ev.End = utils.EndOfDay(last)
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return imp, err
		}
		ev.Start = start
		ev.End = start
		if end, err := ve.GetEndAt(); err == nil {
			ev.End = end
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rec, err := recurrenceFrom(p.Value)
		if err != nil {
			logger.Warn("Ignoring unsupported RRULE", "uid", imp.UID, "rrule", p.Value, "error", err)
		} else {
			ev.Recurring = rec
		}
	}
	return imp, nil
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func eventTypeFor(category string) (constants.EventType, bool) {
	// only the first category is considered
	first, _, _ := strings.Cut(category, ",")
	first = strings.TrimSpace(first)
	for _, t := range constants.EventTypes {
		if strings.EqualFold(string(t), first) {
			return t, true
		}
	}
	return "", false
}

func recurrenceFrom(value string) (*models.Recurrence, error) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return nil, err
	}
	freq, ok := calendar.FrequencyFromRule(opt.Freq)
	if !ok {
		return nil, fmt.Errorf("unsupported frequency %v", opt.Freq)
	}
	rec := &models.Recurrence{Frequency: freq, Interval: opt.Interval}
	if rec.Interval < 1 {
		rec.Interval = 1
	}
	if !opt.Until.IsZero() {
		until := opt.Until
		rec.Until = &until
	}
	return rec, nil
}
