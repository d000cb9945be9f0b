package calendar

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

// ErrNotLoaded is returned when the store is used before Load
var ErrNotLoaded = errors.New("event store not loaded")

// Store is the sole owner of the calendar event collection. Every mutation is
// written through to the storage provider before it returns.
//
// Unknown ids passed to UpdateEvent and DeleteEvent are ignored. A failed
// write is returned to the caller and the in-memory change is kept.
type Store struct {
	mu       sync.RWMutex
	provider storage.Provider
	events   []models.CalendarEvent
	prefs    models.UserPreferences
	loaded   bool
	newID    func() string
}

// NewStore creates an event store persisting through provider.
// The provider must already be initialized or loaded.
func NewStore(provider storage.Provider) *Store {
	return &Store{
		provider: provider,
		newID:    uuid.NewString,
	}
}

// Load reads the persisted snapshot into memory, replacing anything held.
func (s *Store) Load() error {
	snap, err := s.provider.GetSnapshot()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	snap.UserPreferences.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = snap.Events
	if s.events == nil {
		s.events = []models.CalendarEvent{}
	}
	s.prefs = snap.UserPreferences
	s.loaded = true
	logger.Debug("Event store loaded", "events", len(s.events))
	return nil
}

// persist writes the full snapshot; callers hold the write lock
func (s *Store) persist() error {
	snap := models.Snapshot{
		Events:          make([]models.CalendarEvent, len(s.events)),
		UserPreferences: s.prefs.Clone(),
	}
	for i, e := range s.events {
		snap.Events[i] = e.Clone()
	}
	if err := s.provider.SaveSnapshot(snap); err != nil {
		return fmt.Errorf("failed to persist events: %w", err)
	}
	return nil
}

// AddEvent stores a copy of ev under a fresh id and returns that id.
// Any id on ev is ignored. An empty color is filled from the preference color map.
// Linked-id uniqueness is the caller's responsibility.
func (s *Store) AddEvent(ev models.CalendarEvent) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return "", ErrNotLoaded
	}

	ev = ev.Clone()
	ev.ID = s.newID()
	if ev.Color == "" {
		ev.Color = s.prefs.ColorFor(ev.Type)
	}
	s.events = append(s.events, ev)
	logger.Debug("Event added", "id", ev.ID, "type", ev.Type, "linkedId", ev.LinkedID)
	return ev.ID, s.persist()
}

// UpdateEvent merges patch into the event with the given id.
func (s *Store) UpdateEvent(id string, patch models.EventPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	i := s.indexOf(id)
	if i < 0 {
		logger.Debug("Update ignored, event not found", "id", id)
		return nil
	}
	patch.Apply(&s.events[i])
	logger.Debug("Event updated", "id", id)
	return s.persist()
}

// DeleteEvent removes the event with the given id.
func (s *Store) DeleteEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	i := s.indexOf(id)
	if i < 0 {
		logger.Debug("Delete ignored, event not found", "id", id)
		return nil
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	logger.Debug("Event deleted", "id", id)
	return s.persist()
}

// List returns a copy of every event in insertion order
func (s *Store) List() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CalendarEvent, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a copy of the event with the given id
func (s *Store) Get(id string) (models.CalendarEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.CalendarEvent{}, false
	}
	return s.events[i].Clone(), true
}

// Len returns the number of stored events
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Preferences returns a copy of the current preferences
func (s *Store) Preferences() models.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone()
}

// SetPreferences validates and persists new preferences
func (s *Store) SetPreferences(p models.UserPreferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	s.prefs = p.Clone()
	return s.persist()
}

// EventsForDate returns the stored events that fall on date's calendar day
func (s *Store) EventsForDate(date time.Time) []models.CalendarEvent {
	return EventsForDate(s.List(), date)
}

// EventsForRange returns the stored events overlapping [rangeStart, rangeEnd]
func (s *Store) EventsForRange(rangeStart, rangeEnd time.Time) []models.CalendarEvent {
	return EventsForRange(s.List(), rangeStart, rangeEnd)
}

func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}
