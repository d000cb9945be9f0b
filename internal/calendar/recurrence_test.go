package calendar

import (
	"testing"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

func TestOccurrencesWeeklyUntil(t *testing.T) {
	until := at("2024-01-22T23:59:59Z")
	ev := models.CalendarEvent{
		ID:        "seminar",
		Start:     at("2024-01-01T14:00:00Z"),
		End:       at("2024-01-01T15:30:00Z"),
		Recurring: &models.Recurrence{Frequency: constants.FrequencyWeekly, Interval: 1, Until: &until},
	}

	got, err := Occurrences(ev, at("2024-01-01T00:00:00Z"), at("2024-03-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Occurrences failed: %v", err)
	}
	want := []string{"2024-01-01T14:00:00Z", "2024-01-08T14:00:00Z", "2024-01-15T14:00:00Z", "2024-01-22T14:00:00Z"}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(want))
	}
	for i, w := range want {
		if !got[i].Start.Equal(at(w)) {
			t.Errorf("occurrence %d start = %v, want %s", i, got[i].Start, w)
		}
		if got[i].End.Sub(got[i].Start) != 90*time.Minute {
			t.Errorf("occurrence %d lost duration", i)
		}
		if got[i].ID != "seminar" {
			t.Errorf("occurrence %d id = %q", i, got[i].ID)
		}
	}
}

func TestOccurrencesIncludesStraddling(t *testing.T) {
	ev := models.CalendarEvent{
		Start:     at("2024-01-01T23:00:00Z"),
		End:       at("2024-01-02T01:00:00Z"),
		Recurring: &models.Recurrence{Frequency: constants.FrequencyDaily, Interval: 2},
	}

	got, err := Occurrences(ev, at("2024-01-04T00:30:00Z"), at("2024-01-04T12:00:00Z"))
	if err != nil {
		t.Fatalf("Occurrences failed: %v", err)
	}
	if len(got) != 1 || !got[0].Start.Equal(at("2024-01-03T23:00:00Z")) {
		t.Errorf("expected the occurrence straddling midnight, got %+v", got)
	}
}

func TestOccurrencesNonRecurring(t *testing.T) {
	ev := models.CalendarEvent{Start: at("2024-01-01T10:00:00Z"), End: at("2024-01-01T11:00:00Z")}

	got, _ := Occurrences(ev, at("2024-01-01T00:00:00Z"), at("2024-01-02T00:00:00Z"))
	if len(got) != 1 {
		t.Errorf("expected the event itself, got %d", len(got))
	}
	got, _ = Occurrences(ev, at("2024-02-01T00:00:00Z"), at("2024-02-02T00:00:00Z"))
	if len(got) != 0 {
		t.Errorf("expected nothing outside range, got %d", len(got))
	}
}

func TestOccurrencesCap(t *testing.T) {
	ev := models.CalendarEvent{
		Start:     at("2020-01-01T00:00:00Z"),
		End:       at("2020-01-01T00:10:00Z"),
		Recurring: &models.Recurrence{Frequency: constants.FrequencyDaily, Interval: 1},
	}
	got, err := Occurrences(ev, at("2020-01-01T00:00:00Z"), at("2030-01-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Occurrences failed: %v", err)
	}
	if len(got) != constants.MaxOccurrences {
		t.Errorf("got %d occurrences, want cap %d", len(got), constants.MaxOccurrences)
	}
}

func TestOccurrencesUnknownFrequency(t *testing.T) {
	ev := models.CalendarEvent{Recurring: &models.Recurrence{Frequency: "hourly"}}
	if _, err := Occurrences(ev, time.Time{}, time.Now()); err == nil {
		t.Error("expected error for unsupported frequency")
	}
}

func TestExpandRangeSorted(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "late", Start: at("2024-01-03T09:00:00Z"), End: at("2024-01-03T10:00:00Z")},
		{ID: "daily", Start: at("2024-01-01T08:00:00Z"), End: at("2024-01-01T08:30:00Z"),
			Recurring: &models.Recurrence{Frequency: constants.FrequencyDaily, Interval: 1}},
		{ID: "broken", Start: at("2024-01-02T12:00:00Z"), End: at("2024-01-02T13:00:00Z"),
			Recurring: &models.Recurrence{Frequency: "fortnightly"}},
	}

	got := ExpandRange(events, at("2024-01-01T00:00:00Z"), at("2024-01-03T23:59:59Z"))
	want := []string{"daily", "daily", "broken", "daily", "late"}
	if len(got) != len(want) {
		t.Fatalf("ExpandRange = %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("ExpandRange[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestRuleOptionRoundTrip(t *testing.T) {
	until := at("2024-06-01T00:00:00Z")
	opt, err := RuleOption(models.Recurrence{Frequency: constants.FrequencyMonthly, Interval: 2, Until: &until}, at("2024-01-15T09:00:00Z"))
	if err != nil {
		t.Fatalf("RuleOption failed: %v", err)
	}
	if got := opt.RRuleString(); got != "FREQ=MONTHLY;INTERVAL=2;UNTIL=20240601T000000Z" {
		t.Errorf("RRuleString = %q", got)
	}
	if f, ok := FrequencyFromRule(rrule.MONTHLY); !ok || f != constants.FrequencyMonthly {
		t.Errorf("FrequencyFromRule = %v, %v", f, ok)
	}
	if _, ok := FrequencyFromRule(rrule.HOURLY); ok {
		t.Error("hourly should not map")
	}
}
