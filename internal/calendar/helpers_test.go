package calendar

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/models"
)

// memProvider is an in-memory storage.Provider that counts writes
type memProvider struct {
	snap    models.Snapshot
	saves   int
	failing bool
}

func newMemProvider() *memProvider {
	return &memProvider{snap: models.NewSnapshot()}
}

func (m *memProvider) Init() error  { return nil }
func (m *memProvider) Load() error  { return nil }
func (m *memProvider) Close() error { return nil }

func (m *memProvider) GetSnapshot() (models.Snapshot, error) {
	return m.snap, nil
}

func (m *memProvider) SaveSnapshot(s models.Snapshot) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.saves++
	m.snap = s
	return nil
}

func (m *memProvider) GetConfigPath() string { return "memory" }

func setupStore(t *testing.T) (*Store, *memProvider) {
	t.Helper()
	p := newMemProvider()
	s := NewStore(p)
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("ev-%d", seq)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return s, p
}

type fakeTasks struct {
	tasks []models.Task
	err   error
}

func (f *fakeTasks) Tasks() ([]models.Task, error) { return f.tasks, f.err }

type fakeSessions struct {
	sessions []models.PomodoroSession
	err      error
}

func (f *fakeSessions) Sessions() ([]models.PomodoroSession, error) { return f.sessions, f.err }

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
