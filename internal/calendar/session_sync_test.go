package calendar

import (
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

func pomodoroEvents(s *Store) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, e := range s.List() {
		if e.Type == constants.EventTypePomodoro {
			out = append(out, e)
		}
	}
	return out
}

func TestSessionSyncCreates(t *testing.T) {
	s, _ := setupStore(t)
	tasks := &fakeTasks{tasks: []models.Task{{ID: "t1", Title: "Calculus"}}}
	sessions := &fakeSessions{sessions: []models.PomodoroSession{
		{ID: "p1", StartTime: "2024-02-01T09:00:00Z", Duration: 25, TaskID: "t1", Completed: true},
		{ID: "p2", StartTime: "2024-02-01T10:00:00Z", EndTime: "2024-02-01T10:50:00Z", Duration: 25, TaskID: "unknown"},
		{ID: "p3", StartTime: "2024-02-01T11:00:00Z", Duration: 15},
	}}

	report, err := NewSessionReconciler(s, sessions, tasks, SessionOptions{}).Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if report.Created != 3 {
		t.Errorf("Created = %d, want 3", report.Created)
	}

	events := pomodoroEvents(s)
	if len(events) != 3 {
		t.Fatalf("expected 3 pomodoro events, got %d", len(events))
	}

	tests := []struct {
		title     string
		end       string
		completed bool
	}{
		{"Pomodoro: Calculus", "2024-02-01T09:25:00Z", true},
		{"Pomodoro Session", "2024-02-01T10:50:00Z", false},
		{"Pomodoro Session", "2024-02-01T11:15:00Z", false},
	}
	for i, tt := range tests {
		ev := events[i]
		if ev.Title != tt.title {
			t.Errorf("event %d title = %q, want %q", i, ev.Title, tt.title)
		}
		if !ev.End.Equal(at(tt.end)) {
			t.Errorf("event %d end = %v, want %s", i, ev.End, tt.end)
		}
		if ev.AllDay || ev.IsCompleted() != tt.completed || ev.Completed == nil {
			t.Errorf("event %d flags wrong: %+v", i, ev)
		}
		if ev.Color != constants.DefaultColors[constants.EventTypePomodoro] {
			t.Errorf("event %d color = %q", i, ev.Color)
		}
	}
}

func TestSessionSyncCreateOnly(t *testing.T) {
	s, p := setupStore(t)
	sessions := &fakeSessions{sessions: []models.PomodoroSession{
		{ID: "p1", StartTime: "2024-02-01T09:00:00Z", Duration: 25},
		{ID: "p2", StartTime: "2024-02-01T10:00:00Z", Duration: 25},
	}}
	r := NewSessionReconciler(s, sessions, nil, SessionOptions{})
	_, _ = r.Sync()
	saves := p.saves

	// Drift and removal are ignored by default
	sessions.sessions = []models.PomodoroSession{
		{ID: "p1", StartTime: "2024-02-01T09:30:00Z", Duration: 25, Completed: true},
	}
	report, err := r.Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if report.Mutations() != 0 || p.saves != saves {
		t.Errorf("create-only pass mutated: %+v", report)
	}
	events := pomodoroEvents(s)
	if len(events) != 2 || !events[0].Start.Equal(at("2024-02-01T09:00:00Z")) || events[0].IsCompleted() {
		t.Errorf("existing events changed: %+v", events)
	}
}

func TestSessionSyncReconcileExisting(t *testing.T) {
	s, _ := setupStore(t)
	sessions := &fakeSessions{sessions: []models.PomodoroSession{
		{ID: "p1", StartTime: "2024-02-01T09:00:00Z", Duration: 25},
		{ID: "p2", StartTime: "2024-02-01T10:00:00Z", Duration: 25},
	}}
	r := NewSessionReconciler(s, sessions, nil, SessionOptions{ReconcileExisting: true})
	_, _ = r.Sync()

	sessions.sessions = []models.PomodoroSession{
		{ID: "p1", StartTime: "2024-02-01T09:30:00Z", Duration: 50, Completed: true},
	}
	report, err := r.Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if report.Updated != 1 || report.Deleted != 1 {
		t.Errorf("report = %+v", report)
	}
	events := pomodoroEvents(s)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].Start.Equal(at("2024-02-01T09:30:00Z")) || !events[0].End.Equal(at("2024-02-01T10:20:00Z")) || !events[0].IsCompleted() {
		t.Errorf("event not refreshed: %+v", events[0])
	}

	report, _ = r.Sync()
	if report.Mutations() != 0 {
		t.Errorf("reconcile pass not idempotent: %+v", report)
	}
}

func TestSessionSyncSkipsMalformed(t *testing.T) {
	s, _ := setupStore(t)
	sessions := &fakeSessions{sessions: []models.PomodoroSession{
		{ID: "bad-start", StartTime: "soon", Duration: 25},
		{ID: "bad-end", StartTime: "2024-02-01T09:00:00Z", EndTime: "later"},
		{ID: "ok", StartTime: "2024-02-01T09:00:00", Duration: 25},
	}}
	r := NewSessionReconciler(s, sessions, nil, SessionOptions{Location: time.UTC})

	report, err := r.Sync()
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if report.Created != 1 || report.Skipped != 2 {
		t.Errorf("report = %+v", report)
	}
	if ev := pomodoroEvents(s)[0]; !ev.Start.Equal(at("2024-02-01T09:00:00Z")) {
		t.Errorf("naive timestamp not read in configured location: %v", ev.Start)
	}
}
