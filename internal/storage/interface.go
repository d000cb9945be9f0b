package storage

import (
	"errors"

	"github.com/julianstephens/studylit/internal/models"
)

var (
	// ErrNotInitialized is returned by Load when the backing store does not exist yet
	ErrNotInitialized = errors.New("storage not initialized")
	// ErrNotLoaded is returned when the provider is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider persists the event store snapshot. Every backend holds exactly one
// snapshot and SaveSnapshot replaces it whole.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Snapshot
	GetSnapshot() (models.Snapshot, error)
	SaveSnapshot(models.Snapshot) error

	GetConfigPath() string
}
