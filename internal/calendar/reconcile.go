package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/models"
)

// TaskSource exposes the external task list read-only
type TaskSource interface {
	Tasks() ([]models.Task, error)
}

// PomodoroSource exposes the external pomodoro session log read-only
type PomodoroSource interface {
	Sessions() ([]models.PomodoroSession, error)
}

// SyncReport counts what a reconciliation pass did
type SyncReport struct {
	Created int
	Updated int
	Deleted int
	// Skipped counts source records ignored because a timestamp could not be parsed
	Skipped int
}

// Mutations returns the number of store writes the pass performed
func (r SyncReport) Mutations() int {
	return r.Created + r.Updated + r.Deleted
}

func (r SyncReport) String() string {
	return fmt.Sprintf("%d created, %d updated, %d deleted, %d skipped", r.Created, r.Updated, r.Deleted, r.Skipped)
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
