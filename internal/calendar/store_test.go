package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

func TestAddEventAssignsFreshID(t *testing.T) {
	s, p := setupStore(t)

	id1, err := s.AddEvent(models.CalendarEvent{ID: "caller-supplied", Title: "A", Type: constants.EventTypeExam})
	if err != nil {
		t.Fatalf("AddEvent failed: %v", err)
	}
	id2, _ := s.AddEvent(models.CalendarEvent{Title: "B", Type: constants.EventTypeExam})

	if id1 == "caller-supplied" || id1 == id2 {
		t.Errorf("ids not fresh: %q, %q", id1, id2)
	}
	if p.saves != 2 {
		t.Errorf("expected write-through after each add, got %d saves", p.saves)
	}
	if len(p.snap.Events) != 2 || p.snap.Events[0].ID != id1 || p.snap.Events[1].ID != id2 {
		t.Errorf("persisted snapshot out of order: %+v", p.snap.Events)
	}
}

func TestAddEventDefaultsColor(t *testing.T) {
	s, _ := setupStore(t)

	id, _ := s.AddEvent(models.CalendarEvent{Type: constants.EventTypePomodoro})
	ev, _ := s.Get(id)
	if ev.Color != constants.DefaultColors[constants.EventTypePomodoro] {
		t.Errorf("Color = %q", ev.Color)
	}

	id, _ = s.AddEvent(models.CalendarEvent{Type: constants.EventTypePomodoro, Color: "#abcdef"})
	ev, _ = s.Get(id)
	if ev.Color != "#abcdef" {
		t.Errorf("explicit color overwritten: %q", ev.Color)
	}
}

func TestUpdateEventMerges(t *testing.T) {
	s, p := setupStore(t)
	start := at("2024-01-01T09:00:00Z")
	id, _ := s.AddEvent(models.CalendarEvent{Title: "Old", Description: "desc", Start: start, End: start.Add(time.Hour), Type: constants.EventTypeStudySession})

	if err := s.UpdateEvent(id, models.EventPatch{Title: models.String("New")}); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	ev, _ := s.Get(id)
	if ev.Title != "New" || ev.Description != "desc" || !ev.Start.Equal(start) {
		t.Errorf("merge wrong: %+v", ev)
	}
	if p.saves != 2 {
		t.Errorf("expected 2 saves, got %d", p.saves)
	}
}

func TestUnknownIDIsSilentNoOp(t *testing.T) {
	s, p := setupStore(t)
	_, _ = s.AddEvent(models.CalendarEvent{Title: "keep"})
	saves := p.saves

	if err := s.UpdateEvent("missing", models.EventPatch{Title: models.String("x")}); err != nil {
		t.Errorf("UpdateEvent(missing) = %v, want nil", err)
	}
	if err := s.DeleteEvent("missing"); err != nil {
		t.Errorf("DeleteEvent(missing) = %v, want nil", err)
	}
	if p.saves != saves {
		t.Errorf("no-op mutations should not persist, saves %d -> %d", saves, p.saves)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestDeleteEvent(t *testing.T) {
	s, _ := setupStore(t)
	a, _ := s.AddEvent(models.CalendarEvent{Title: "a"})
	b, _ := s.AddEvent(models.CalendarEvent{Title: "b"})
	c, _ := s.AddEvent(models.CalendarEvent{Title: "c"})

	if err := s.DeleteEvent(b); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	list := s.List()
	if len(list) != 2 || list[0].ID != a || list[1].ID != c {
		t.Errorf("List after delete = %+v", list)
	}
}

func TestListReturnsCopy(t *testing.T) {
	s, _ := setupStore(t)
	id, _ := s.AddEvent(models.CalendarEvent{Title: "orig", Completed: models.Bool(false)})

	list := s.List()
	list[0].Title = "changed"
	*list[0].Completed = true

	ev, _ := s.Get(id)
	if ev.Title != "orig" || ev.IsCompleted() {
		t.Errorf("List exposed internal state: %+v", ev)
	}
}

func TestPersistenceFailureKeepsMemory(t *testing.T) {
	s, p := setupStore(t)
	p.failing = true

	id, err := s.AddEvent(models.CalendarEvent{Title: "unsaved"})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if id == "" {
		t.Error("id should still be returned")
	}
	if _, ok := s.Get(id); !ok {
		t.Error("in-memory add should not be rolled back")
	}
}

func TestNotLoaded(t *testing.T) {
	s := NewStore(newMemProvider())

	if _, err := s.AddEvent(models.CalendarEvent{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("AddEvent before Load = %v", err)
	}
	if err := s.UpdateEvent("x", models.EventPatch{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("UpdateEvent before Load = %v", err)
	}
	if err := s.DeleteEvent("x"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("DeleteEvent before Load = %v", err)
	}
}

func TestLoadRestoresSnapshot(t *testing.T) {
	p := newMemProvider()
	p.snap.Events = []models.CalendarEvent{{ID: "persisted", Title: "from disk"}}
	p.snap.UserPreferences.FirstDayOfWeek = time.Monday

	s := NewStore(p)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ev, ok := s.Get("persisted"); !ok || ev.Title != "from disk" {
		t.Errorf("event not restored: %+v", ev)
	}
	if s.Preferences().FirstDayOfWeek != time.Monday {
		t.Error("preferences not restored")
	}
}

func TestSetPreferences(t *testing.T) {
	s, p := setupStore(t)

	prefs := s.Preferences()
	prefs.FirstDayOfWeek = time.Wednesday
	if err := s.SetPreferences(prefs); !errors.Is(err, models.ErrInvalidPreferences) {
		t.Errorf("SetPreferences(wednesday) = %v", err)
	}

	prefs.FirstDayOfWeek = time.Saturday
	prefs.ColorMap[constants.EventTypeTask] = "#111111"
	if err := s.SetPreferences(prefs); err != nil {
		t.Fatalf("SetPreferences failed: %v", err)
	}
	if p.snap.UserPreferences.FirstDayOfWeek != time.Saturday {
		t.Error("preferences not persisted")
	}

	id, _ := s.AddEvent(models.CalendarEvent{Type: constants.EventTypeTask})
	ev, _ := s.Get(id)
	if ev.Color != "#111111" {
		t.Errorf("color map not applied: %q", ev.Color)
	}
}
