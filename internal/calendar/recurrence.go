package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

var frequencies = map[constants.Frequency]rrule.Frequency{
	constants.FrequencyDaily:   rrule.DAILY,
	constants.FrequencyWeekly:  rrule.WEEKLY,
	constants.FrequencyMonthly: rrule.MONTHLY,
	constants.FrequencyYearly:  rrule.YEARLY,
}

// RuleOption converts a recurrence descriptor into an rrule option anchored at dtstart
func RuleOption(r models.Recurrence, dtstart time.Time) (rrule.ROption, error) {
	freq, ok := frequencies[r.Frequency]
	if !ok {
		return rrule.ROption{}, fmt.Errorf("unsupported recurrence frequency %q", r.Frequency)
	}
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}
	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  dtstart,
	}
	if r.Until != nil {
		opt.Until = *r.Until
	}
	return opt, nil
}

// FrequencyFromRule maps an rrule frequency back onto the supported set
func FrequencyFromRule(f rrule.Frequency) (constants.Frequency, bool) {
	for k, v := range frequencies {
		if v == f {
			return k, true
		}
	}
	return "", false
}

// Occurrences expands ev into the instances overlapping [from, to].
// A non-recurring event yields itself when it overlaps. Instances keep the
// event id and duration; at most constants.MaxOccurrences are returned.
func Occurrences(ev models.CalendarEvent, from, to time.Time) ([]models.CalendarEvent, error) {
	if ev.Recurring == nil {
		if Overlaps(ev, from, to) {
			return []models.CalendarEvent{ev.Clone()}, nil
		}
		return nil, nil
	}

	opt, err := RuleOption(*ev.Recurring, ev.Start)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", ev.ID, err)
	}

	duration := ev.End.Sub(ev.Start)
	var out []models.CalendarEvent
	next := rule.Iterator()
	for len(out) < constants.MaxOccurrences {
		start, ok := next()
		if !ok || start.After(to) {
			break
		}
		inst := ev.Clone()
		inst.Start = start
		inst.End = start.Add(duration)
		if Overlaps(inst, from, to) {
			out = append(out, inst)
		}
	}
	return out, nil
}

// ExpandRange expands every event over [from, to] and sorts the instances by start.
// Events with an invalid recurrence are returned once, unexpanded, if they overlap.
func ExpandRange(events []models.CalendarEvent, from, to time.Time) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, ev := range events {
		occ, err := Occurrences(ev, from, to)
		if err != nil {
			if Overlaps(ev, from, to) {
				out = append(out, ev.Clone())
			}
			continue
		}
		out = append(out, occ...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
