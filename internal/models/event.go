package models

import (
	"time"

	"github.com/julianstephens/studylit/internal/constants"
)

// Recurrence describes how an event repeats. It is stored as authored and
// only expanded on request.
type Recurrence struct {
	Frequency constants.Frequency `json:"frequency"`
	Interval  int                 `json:"interval"`
	Until     *time.Time          `json:"until,omitempty"`
}

// Reminder fires Minutes before the event start. Nothing in this module fires reminders.
type Reminder struct {
	Minutes int  `json:"time"`
	Sent    bool `json:"sent"`
}

// CalendarEvent is a single entry in the event store
type CalendarEvent struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Start       time.Time           `json:"start"`
	End         time.Time           `json:"end"`
	AllDay      bool                `json:"allDay"`
	Type        constants.EventType `json:"type"`
	Color       string              `json:"color"`
	LinkedID    string              `json:"linkedId,omitempty"`
	Completed   *bool               `json:"completed,omitempty"`
	Recurring   *Recurrence         `json:"recurring,omitempty"`
	Reminders   []Reminder          `json:"reminders,omitempty"`
}

// IsCompleted reports the completed flag, treating unset as false
func (e CalendarEvent) IsCompleted() bool {
	return e.Completed != nil && *e.Completed
}

// Clone returns a deep copy so callers cannot reach the store's records
func (e CalendarEvent) Clone() CalendarEvent {
	c := e
	if e.Completed != nil {
		v := *e.Completed
		c.Completed = &v
	}
	if e.Recurring != nil {
		r := *e.Recurring
		if e.Recurring.Until != nil {
			u := *e.Recurring.Until
			r.Until = &u
		}
		c.Recurring = &r
	}
	if e.Reminders != nil {
		c.Reminders = append([]Reminder(nil), e.Reminders...)
	}
	return c
}

// EventPatch is a partial update; nil fields are left untouched
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	AllDay      *bool
	Type        *constants.EventType
	Color       *string
	LinkedID    *string
	Completed   *bool
	Recurring   *Recurrence
	Reminders   []Reminder
	// ClearRecurring removes the recurrence descriptor
	ClearRecurring bool
}

// IsEmpty reports whether the patch changes nothing
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Start == nil && p.End == nil &&
		p.AllDay == nil && p.Type == nil && p.Color == nil && p.LinkedID == nil &&
		p.Completed == nil && p.Recurring == nil && p.Reminders == nil && !p.ClearRecurring
}

// Apply merges the patch into e. The id is never changed.
func (p EventPatch) Apply(e *CalendarEvent) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.AllDay != nil {
		e.AllDay = *p.AllDay
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.LinkedID != nil {
		e.LinkedID = *p.LinkedID
	}
	if p.Completed != nil {
		v := *p.Completed
		e.Completed = &v
	}
	if p.ClearRecurring {
		e.Recurring = nil
	}
	if p.Recurring != nil {
		r := *p.Recurring
		if p.Recurring.Until != nil {
			u := *p.Recurring.Until
			r.Until = &u
		}
		e.Recurring = &r
	}
	if p.Reminders != nil {
		e.Reminders = append([]Reminder(nil), p.Reminders...)
	}
}

// ValidEventType reports whether t belongs to the closed type set
func ValidEventType(t constants.EventType) bool {
	for _, known := range constants.EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Bool returns a pointer to b
func Bool(b bool) *bool { return &b }

// String returns a pointer to s
func String(s string) *string { return &s }

// Time returns a pointer to t
func Time(t time.Time) *time.Time { return &t }
