package storage

import (
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

func TestEventRowRoundTrip(t *testing.T) {
	loc := time.FixedZone("plus2", 2*3600)
	until := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ev := models.CalendarEvent{
		ID:          "e1",
		Title:       "Chem",
		Description: "line one\nline two",
		Start:       time.Date(2024, 5, 1, 9, 30, 0, 0, loc),
		End:         time.Date(2024, 5, 1, 10, 30, 0, 0, loc),
		Type:        constants.EventTypeStudySession,
		Color:       "#10b981",
		Recurring:   &models.Recurrence{Frequency: constants.FrequencyWeekly, Interval: 2, Until: &until},
		Reminders:   []models.Reminder{{Minutes: 15}},
	}

	row, err := EncodeEvent(ev, 3)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if row.Position != 3 || row.LinkedID.Valid || row.Completed.Valid {
		t.Errorf("unexpected row: %+v", row)
	}

	got, err := DecodeEvent(row)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if got.Start.Hour() != 9 || !got.Start.Equal(ev.Start) {
		t.Errorf("start wall clock lost: %v", got.Start)
	}
	if got.Recurring == nil || got.Recurring.Interval != 2 || !got.Recurring.Until.Equal(until) {
		t.Errorf("recurrence lost: %+v", got.Recurring)
	}
	if len(got.Reminders) != 1 || got.Reminders[0].Minutes != 15 {
		t.Errorf("reminders lost: %+v", got.Reminders)
	}
	if got.Completed != nil || got.LinkedID != "" {
		t.Errorf("optional fields should stay unset: %+v", got)
	}
}

func TestDecodeEventBadTimestamp(t *testing.T) {
	if _, err := DecodeEvent(EventRow{ID: "x", StartAt: "yesterday"}); err == nil {
		t.Error("expected error for malformed start")
	}
}

func TestPreferencesKVRoundTrip(t *testing.T) {
	p := models.DefaultPreferences()
	p.DefaultView = constants.ViewMonth
	p.FirstDayOfWeek = time.Saturday
	p.WorkingHours = models.WorkingHours{Start: 6, End: 22}
	p.RemindersEnabled = false
	p.ColorMap[constants.EventTypeExam] = "#123456"

	got, err := PreferencesFromKV(PreferencesToKV(p))
	if err != nil {
		t.Fatalf("PreferencesFromKV failed: %v", err)
	}
	if got.DefaultView != p.DefaultView || got.FirstDayOfWeek != p.FirstDayOfWeek ||
		got.WorkingHours != p.WorkingHours || got.RemindersEnabled != p.RemindersEnabled {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
	if got.ColorMap[constants.EventTypeExam] != "#123456" {
		t.Errorf("color lost: %v", got.ColorMap)
	}

	if _, err := PreferencesFromKV(map[string]string{constants.PrefWorkingHoursStart: "eight"}); err == nil {
		t.Error("expected error for non-numeric working hours")
	}
}
