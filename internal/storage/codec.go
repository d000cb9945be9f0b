package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

// EventRow is the column layout shared by the SQL backends.
// Timestamps are stored as RFC3339 text so the authored offset survives a round trip.
type EventRow struct {
	ID          string
	Position    int
	Title       string
	Description string
	StartAt     string
	EndAt       string
	AllDay      bool
	Type        string
	Color       string
	LinkedID    sql.NullString
	Completed   sql.NullBool
	Recurring   sql.NullString
	Reminders   sql.NullString
}

// EncodeEvent converts an event into its row form
func EncodeEvent(e models.CalendarEvent, position int) (EventRow, error) {
	row := EventRow{
		ID:          e.ID,
		Position:    position,
		Title:       e.Title,
		Description: e.Description,
		StartAt:     e.Start.Format(time.RFC3339Nano),
		EndAt:       e.End.Format(time.RFC3339Nano),
		AllDay:      e.AllDay,
		Type:        string(e.Type),
		Color:       e.Color,
	}
	if e.LinkedID != "" {
		row.LinkedID = sql.NullString{String: e.LinkedID, Valid: true}
	}
	if e.Completed != nil {
		row.Completed = sql.NullBool{Bool: *e.Completed, Valid: true}
	}
	if e.Recurring != nil {
		data, err := json.Marshal(e.Recurring)
		if err != nil {
			return EventRow{}, fmt.Errorf("encoding recurrence for %s: %w", e.ID, err)
		}
		row.Recurring = sql.NullString{String: string(data), Valid: true}
	}
	if len(e.Reminders) > 0 {
		data, err := json.Marshal(e.Reminders)
		if err != nil {
			return EventRow{}, fmt.Errorf("encoding reminders for %s: %w", e.ID, err)
		}
		row.Reminders = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}

// DecodeEvent converts a row back into an event
func DecodeEvent(row EventRow) (models.CalendarEvent, error) {
	start, err := time.Parse(time.RFC3339Nano, row.StartAt)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("parsing start of %s: %w", row.ID, err)
	}
	end, err := time.Parse(time.RFC3339Nano, row.EndAt)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("parsing end of %s: %w", row.ID, err)
	}

	e := models.CalendarEvent{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Start:       start,
		End:         end,
		AllDay:      row.AllDay,
		Type:        constants.EventType(row.Type),
		Color:       row.Color,
		LinkedID:    row.LinkedID.String,
	}
	if row.Completed.Valid {
		e.Completed = models.Bool(row.Completed.Bool)
	}
	if row.Recurring.Valid && row.Recurring.String != "" {
		var r models.Recurrence
		if err := json.Unmarshal([]byte(row.Recurring.String), &r); err != nil {
			return models.CalendarEvent{}, fmt.Errorf("parsing recurrence of %s: %w", row.ID, err)
		}
		e.Recurring = &r
	}
	if row.Reminders.Valid && row.Reminders.String != "" {
		if err := json.Unmarshal([]byte(row.Reminders.String), &e.Reminders); err != nil {
			return models.CalendarEvent{}, fmt.Errorf("parsing reminders of %s: %w", row.ID, err)
		}
	}
	return e, nil
}

// PreferencesToKV flattens preferences into the key/value preferences table
func PreferencesToKV(p models.UserPreferences) map[string]string {
	kv := map[string]string{
		constants.PrefDefaultView:       string(p.DefaultView),
		constants.PrefFirstDayOfWeek:    strconv.Itoa(int(p.FirstDayOfWeek)),
		constants.PrefWorkingHoursStart: strconv.Itoa(p.WorkingHours.Start),
		constants.PrefWorkingHoursEnd:   strconv.Itoa(p.WorkingHours.End),
		constants.PrefRemindersEnabled:  strconv.FormatBool(p.RemindersEnabled),
	}
	for t, c := range p.ColorMap {
		kv[constants.PrefColorPrefix+string(t)] = c
	}
	return kv
}

// PreferencesFromKV rebuilds preferences from stored key/value pairs.
// Missing keys fall back to the defaults.
func PreferencesFromKV(kv map[string]string) (models.UserPreferences, error) {
	p := models.DefaultPreferences()
	for key, value := range kv {
		var err error
		switch {
		case key == constants.PrefDefaultView:
			p.DefaultView = constants.ViewMode(value)
		case key == constants.PrefFirstDayOfWeek:
			var d int
			d, err = strconv.Atoi(value)
			p.FirstDayOfWeek = time.Weekday(d)
		case key == constants.PrefWorkingHoursStart:
			p.WorkingHours.Start, err = strconv.Atoi(value)
		case key == constants.PrefWorkingHoursEnd:
			p.WorkingHours.End, err = strconv.Atoi(value)
		case key == constants.PrefRemindersEnabled:
			p.RemindersEnabled, err = strconv.ParseBool(value)
		case strings.HasPrefix(key, constants.PrefColorPrefix):
			p.ColorMap[constants.EventType(strings.TrimPrefix(key, constants.PrefColorPrefix))] = value
		}
		if err != nil {
			return models.UserPreferences{}, fmt.Errorf("parsing preference %s: %w", key, err)
		}
	}
	return p, nil
}
