package models

import (
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
)

func TestEventPatchApply(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	ev := CalendarEvent{
		ID:          "e1",
		Title:       "Old",
		Description: "keep me",
		Start:       start,
		End:         start.Add(time.Hour),
		Type:        constants.EventTypeStudySession,
		Recurring:   &Recurrence{Frequency: constants.FrequencyDaily, Interval: 1},
	}

	newStart := start.Add(2 * time.Hour)
	EventPatch{
		Title:          String("New"),
		Start:          &newStart,
		Completed:      Bool(true),
		ClearRecurring: true,
	}.Apply(&ev)

	if ev.ID != "e1" {
		t.Errorf("id changed to %q", ev.ID)
	}
	if ev.Title != "New" {
		t.Errorf("Title = %q, want New", ev.Title)
	}
	if ev.Description != "keep me" {
		t.Errorf("Description overwritten: %q", ev.Description)
	}
	if !ev.Start.Equal(newStart) {
		t.Errorf("Start = %v, want %v", ev.Start, newStart)
	}
	if !ev.End.Equal(start.Add(time.Hour)) {
		t.Errorf("End changed to %v", ev.End)
	}
	if !ev.IsCompleted() {
		t.Error("expected completed")
	}
	if ev.Recurring != nil {
		t.Error("expected recurrence cleared")
	}
}

func TestEventPatchIsEmpty(t *testing.T) {
	if !(EventPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (EventPatch{Completed: Bool(false)}).IsEmpty() {
		t.Error("patch with completed=false is not empty")
	}
}

func TestCloneIsDeep(t *testing.T) {
	until := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ev := CalendarEvent{
		Completed: Bool(false),
		Recurring: &Recurrence{Frequency: constants.FrequencyWeekly, Interval: 1, Until: &until},
		Reminders: []Reminder{{Minutes: 10}},
	}

	c := ev.Clone()
	*c.Completed = true
	c.Recurring.Interval = 5
	*c.Recurring.Until = until.AddDate(1, 0, 0)
	c.Reminders[0].Sent = true

	if *ev.Completed || ev.Recurring.Interval != 1 || !ev.Recurring.Until.Equal(until) || ev.Reminders[0].Sent {
		t.Errorf("clone shares state with original: %+v", ev)
	}
}

func TestEventPatchApplyCopiesUntil(t *testing.T) {
	until := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	patch := EventPatch{Recurring: &Recurrence{Frequency: constants.FrequencyDaily, Interval: 1, Until: &until}}

	var ev CalendarEvent
	patch.Apply(&ev)
	until = until.AddDate(1, 0, 0)
	patch.Recurring.Interval = 3

	if !ev.Recurring.Until.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("until changed through the patch: %v", ev.Recurring.Until)
	}
	if ev.Recurring.Interval != 1 {
		t.Errorf("interval changed through the patch: %d", ev.Recurring.Interval)
	}
}

func TestValidEventType(t *testing.T) {
	for _, et := range constants.EventTypes {
		if !ValidEventType(et) {
			t.Errorf("%s should be valid", et)
		}
	}
	if ValidEventType("meeting") {
		t.Error("meeting should be invalid")
	}
}
