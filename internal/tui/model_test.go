package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

var fixedNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, events ...models.CalendarEvent) Model {
	t.Helper()
	provider := storage.NewJSONStore(filepath.Join(t.TempDir(), "cal.json"))
	if err := provider.Init(); err != nil {
		t.Fatal(err)
	}
	store := calendar.NewStore(provider)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	for _, ev := range events {
		if _, err := store.AddEvent(ev); err != nil {
			t.Fatal(err)
		}
	}

	m, err := NewModel(store, time.UTC, func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func event(title string, start time.Time, d time.Duration) models.CalendarEvent {
	return models.CalendarEvent{Title: title, Start: start, End: start.Add(d), Type: constants.EventTypeStudySession}
}

func TestNewModelUsesDefaultView(t *testing.T) {
	m := newTestModel(t, event("Organic chemistry", time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC), time.Hour))

	if m.view.Mode != constants.ViewWeek {
		t.Errorf("mode = %s, want week", m.view.Mode)
	}
	view := m.View()
	for _, want := range []string{"Week of 2024-03-03 - 2024-03-09", "Tue 2024-03-05", "14:00-15:00", "Organic chemistry"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t,
		event("This week", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), time.Hour),
		event("Next week", time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC), time.Hour),
	)

	m = send(t, m, keyPress("l"))
	if !strings.Contains(m.View(), "Next week") || strings.Contains(m.View(), "This week") {
		t.Errorf("next did not move one week:\n%s", m.View())
	}

	m = send(t, m, keyPress("h"))
	m = send(t, m, keyPress("h"))
	if !strings.Contains(m.View(), "Week of 2024-02-25") {
		t.Errorf("prev did not move back:\n%s", m.View())
	}

	m = send(t, m, keyPress("t"))
	if !m.view.Selected.Equal(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("today selected %v", m.view.Selected)
	}
}

func TestCycleMode(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view.Mode != constants.ViewMonth || !strings.Contains(m.View(), "March 2024") {
		t.Errorf("tab should switch to month, got %s", m.view.Mode)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.view.Mode != constants.ViewDay || !strings.Contains(m.View(), "Wednesday, 2024-03-06") {
		t.Errorf("tab should wrap to day, got %s", m.view.Mode)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.view.Mode != constants.ViewMonth {
		t.Errorf("shift+tab should go back to month, got %s", m.view.Mode)
	}
}

func TestExpandToggle(t *testing.T) {
	rec := event("Flashcards", time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), 30*time.Minute)
	rec.Recurring = &models.Recurrence{Frequency: constants.FrequencyDaily, Interval: 1}
	m := newTestModel(t, rec)

	if strings.Contains(m.View(), "Flashcards") {
		t.Errorf("recurring event should not show unexpanded:\n%s", m.View())
	}
	m = send(t, m, keyPress("e"))
	view := m.View()
	if !strings.Contains(view, "recurring expanded") || strings.Count(view, "Flashcards") != 7 {
		t.Errorf("expected seven occurrences:\n%s", view)
	}
}

func TestValidationWarning(t *testing.T) {
	bad := event("Backwards", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), -time.Hour)
	m := newTestModel(t, bad)
	if !strings.Contains(m.View(), "1 validation warning(s)") {
		t.Errorf("missing validation warning:\n%s", m.View())
	}
}

func TestAddEventForm(t *testing.T) {
	m := newTestModel(t)

	m = send(t, m, keyPress("a"))
	if m.state != StateAddEvent || m.form == nil {
		t.Fatal("a should open the add form")
	}
	if m.eventForm.Date != "2024-03-06" || m.eventForm.Type != constants.EventTypeStudySession {
		t.Errorf("unexpected form defaults: %+v", m.eventForm)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateBrowse {
		t.Error("esc should close the form")
	}
}

func TestSubmitEvent(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, keyPress("a"))
	*m.eventForm = EventFormModel{Title: "Midterm", Date: "2024-03-20", Start: "13:30", Duration: "120", Type: constants.EventTypeExam}

	m.submitEvent()
	if m.state != StateBrowse || m.statusIsError {
		t.Fatalf("submit failed: %s", m.status)
	}
	events := m.store.List()
	if len(events) != 1 || events[0].Title != "Midterm" {
		t.Fatalf("event not stored: %+v", events)
	}
	if !strings.Contains(m.View(), "Week of 2024-03-17") || !strings.Contains(m.View(), "13:30-15:30") {
		t.Errorf("view should jump to the new event:\n%s", m.View())
	}
}

func TestBuildEvent(t *testing.T) {
	tests := []struct {
		name      string
		form      EventFormModel
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "timed",
			form:      EventFormModel{Title: "Lab", Date: "2024-03-06", Start: "09:15", Duration: "45", Type: constants.EventTypeStudySession},
			wantStart: time.Date(2024, 3, 6, 9, 15, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "all day ignores clock",
			form:      EventFormModel{Title: "Reading day", Date: "2024-03-07", Start: "bad", AllDay: true, Type: constants.EventTypeStudySession},
			wantStart: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 7, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{name: "empty title", form: EventFormModel{Title: " ", Date: "2024-03-06", Start: "09:00", Duration: "30"}, wantErr: true},
		{name: "bad date", form: EventFormModel{Title: "x", Date: "03/06/2024", Start: "09:00", Duration: "30"}, wantErr: true},
		{name: "bad clock", form: EventFormModel{Title: "x", Date: "2024-03-06", Start: "9am", Duration: "30"}, wantErr: true},
		{name: "zero duration", form: EventFormModel{Title: "x", Date: "2024-03-06", Start: "09:00", Duration: "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := buildEvent(tt.form, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !ev.Start.Equal(tt.wantStart) || !ev.End.Equal(tt.wantEnd) {
				t.Errorf("span = %v - %v, want %v - %v", ev.Start, ev.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if updated.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}
