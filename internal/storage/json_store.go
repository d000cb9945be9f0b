package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/studylit/internal/models"
)

// JSONStore keeps the snapshot as a single JSON document on disk
type JSONStore struct {
	path     string
	snapshot *models.Snapshot
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	snap := models.NewSnapshot()
	s.snapshot = &snap
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w at %s", ErrNotInitialized, s.path)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	snap := models.Snapshot{}
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if snap.Events == nil {
		snap.Events = []models.CalendarEvent{}
	}
	snap.UserPreferences.Normalize()
	s.snapshot = &snap
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetSnapshot() (models.Snapshot, error) {
	if s.snapshot == nil {
		return models.Snapshot{}, ErrNotLoaded
	}
	out := models.Snapshot{
		Events:          make([]models.CalendarEvent, len(s.snapshot.Events)),
		UserPreferences: s.snapshot.UserPreferences.Clone(),
	}
	for i, e := range s.snapshot.Events {
		out.Events[i] = e.Clone()
	}
	return out, nil
}

func (s *JSONStore) SaveSnapshot(snap models.Snapshot) error {
	if s.snapshot == nil {
		return ErrNotLoaded
	}
	if snap.Events == nil {
		snap.Events = []models.CalendarEvent{}
	}
	s.snapshot = &snap
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// save writes through a temp file so a crash never leaves a truncated snapshot
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}
