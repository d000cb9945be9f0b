package ics

import (
	"strings"
	"testing"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

func TestImportRoundTrip(t *testing.T) {
	until := mustTime(t, "2024-03-01T00:00:00Z")
	events := []models.CalendarEvent{
		{
			ID:          "one",
			Title:       "Study",
			Description: "chapter 4\nchapter 5",
			Start:       mustTime(t, "2024-01-01T09:00:00Z"),
			End:         mustTime(t, "2024-01-01T10:00:00Z"),
			Type:        constants.EventTypeExam,
		},
		{
			ID:        "two",
			Title:     "Weekly review",
			Start:     mustTime(t, "2024-01-02T15:00:00Z"),
			End:       mustTime(t, "2024-01-02T16:00:00Z"),
			Type:      constants.EventTypePomodoro,
			Recurring: &models.Recurrence{Frequency: constants.FrequencyWeekly, Interval: 1, Until: &until},
		},
	}

	got, err := Import(strings.NewReader(ExportString(events)))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}

	first := got[0]
	if first.UID != "one" || first.Event.Title != "Study" {
		t.Errorf("unexpected first event: %+v", first)
	}
	if first.Event.Description != "chapter 4\nchapter 5" {
		t.Errorf("description = %q", first.Event.Description)
	}
	if !first.Event.Start.Equal(events[0].Start) || !first.Event.End.Equal(events[0].End) {
		t.Errorf("times changed: %v - %v", first.Event.Start, first.Event.End)
	}
	if first.Event.Type != constants.EventTypeExam {
		t.Errorf("type = %q, want exam", first.Event.Type)
	}
	if first.Event.AllDay {
		t.Errorf("timed event imported as all-day")
	}
	if first.Event.ID != "" {
		t.Errorf("imported event should not carry an id")
	}

	rec := got[1].Event.Recurring
	if rec == nil {
		t.Fatalf("recurrence lost on import")
	}
	if rec.Frequency != constants.FrequencyWeekly || rec.Interval != 1 {
		t.Errorf("unexpected recurrence: %+v", rec)
	}
	if rec.Until == nil || !rec.Until.Equal(until) {
		t.Errorf("until = %v, want %v", rec.Until, until)
	}
}

const foreignCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Other//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:holiday@example.com\r\n" +
	"SUMMARY:Reading week\r\n" +
	"DTSTART;VALUE=DATE:20240311\r\n" +
	"DTEND;VALUE=DATE:20240316\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:broken@example.com\r\n" +
	"SUMMARY:No start\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:lecture@example.com\r\n" +
	"SUMMARY:Lecture\r\n" +
	"CATEGORIES:Meeting,Work\r\n" +
	"DTSTART:20240312T100000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestImportForeignCalendar(t *testing.T) {
	got, err := Import(strings.NewReader(foreignCalendar))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (event without DTSTART skipped)", len(got))
	}

	holiday := got[0].Event
	if !holiday.AllDay {
		t.Errorf("date-only event should be all-day")
	}
	if holiday.Start.Day() != 11 || holiday.Start.Hour() != 0 {
		t.Errorf("start = %v", holiday.Start)
	}
	if holiday.End.Day() != 15 || holiday.End.Hour() != 23 {
		t.Errorf("end = %v, want end of the 15th", holiday.End)
	}
	if holiday.Type != constants.EventTypeStudySession {
		t.Errorf("type = %q, want default studySession", holiday.Type)
	}

	lecture := got[1]
	if lecture.UID != "lecture@example.com" {
		t.Errorf("uid = %q", lecture.UID)
	}
	if !lecture.Event.End.Equal(lecture.Event.Start) {
		t.Errorf("missing DTEND should collapse to start")
	}
	if lecture.Event.Type != constants.EventTypeStudySession {
		t.Errorf("unknown category should fall back to studySession")
	}
}

func TestImportInvalid(t *testing.T) {
	if _, err := Import(strings.NewReader("not a calendar")); err == nil {
		t.Errorf("expected error for garbage input")
	}
}

func TestEventTypeFor(t *testing.T) {
	tests := []struct {
		in   string
		want constants.EventType
		ok   bool
	}{
		{"TASK", constants.EventTypeTask, true},
		{"studysession", constants.EventTypeStudySession, true},
		{"Pomodoro, extra", constants.EventTypePomodoro, true},
		{"EXAM", constants.EventTypeExam, true},
		{"HOLIDAY", "", false},
	}
	for _, tt := range tests {
		got, ok := eventTypeFor(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("eventTypeFor(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
