package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

// TaskReconciler mirrors the task list into all-day events of type task
type TaskReconciler struct {
	store *Store
	tasks TaskSource
	// Location interprets due dates that carry no offset; nil means time.Local
	Location *time.Location
}

func NewTaskReconciler(store *Store, tasks TaskSource) *TaskReconciler {
	return &TaskReconciler{store: store, tasks: tasks}
}

// Sync runs one full reconciliation pass.
//
// Tasks without an event get one. Task events whose task is gone are deleted,
// and events whose title, description, start or completion drifted are patched.
// Extra events linked to the same task are removed, keeping the oldest. A task
// with an unparsable due date is skipped and its existing event left alone.
// Running Sync twice without source changes performs no writes the second time.
func (r *TaskReconciler) Sync() (SyncReport, error) {
	var report SyncReport

	tasks, err := r.tasks.Tasks()
	if err != nil {
		return report, fmt.Errorf("failed to read tasks: %w", err)
	}
	loc := locationOrLocal(r.Location)

	byID := make(map[string]models.Task, len(tasks))
	due := make(map[string]time.Time, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; dup {
			continue
		}
		byID[t.ID] = t
		d, err := utils.ParseTimestamp(t.DueDate, loc)
		if err != nil {
			logger.Warn("Skipping task with invalid due date", "task", t.ID, "dueDate", t.DueDate, "error", err)
			report.Skipped++
			continue
		}
		due[t.ID] = d
	}

	var existing []models.CalendarEvent
	linked := map[string]bool{}
	for _, ev := range r.store.List() {
		if ev.Type != constants.EventTypeTask || ev.LinkedID == "" {
			continue
		}
		if linked[ev.LinkedID] {
			if err := r.store.DeleteEvent(ev.ID); err != nil {
				return report, err
			}
			logger.Info("Removed duplicate task event", "event", ev.ID, "task", ev.LinkedID)
			report.Deleted++
			continue
		}
		linked[ev.LinkedID] = true
		existing = append(existing, ev)
	}

	prefs := r.store.Preferences()
	for _, t := range tasks {
		d, ok := due[t.ID]
		if !ok || linked[t.ID] {
			continue
		}
		_, err := r.store.AddEvent(models.CalendarEvent{
			Title:       t.Title,
			Description: t.Description,
			Start:       d,
			End:         d,
			AllDay:      true,
			Type:        constants.EventTypeTask,
			Color:       prefs.ColorFor(constants.EventTypeTask),
			LinkedID:    t.ID,
			Completed:   models.Bool(t.Status == constants.TaskStatusCompleted),
		})
		if err != nil {
			return report, err
		}
		linked[t.ID] = true
		report.Created++
	}

	for _, ev := range existing {
		t, ok := byID[ev.LinkedID]
		if !ok {
			if err := r.store.DeleteEvent(ev.ID); err != nil {
				return report, err
			}
			report.Deleted++
			continue
		}
		d, ok := due[t.ID]
		if !ok {
			continue
		}
		completed := t.Status == constants.TaskStatusCompleted
		if ev.Title == t.Title && ev.Description == t.Description && ev.Start.Equal(d) && ev.IsCompleted() == completed {
			continue
		}
		if err := r.store.UpdateEvent(ev.ID, models.EventPatch{
			Title:       models.String(t.Title),
			Description: models.String(t.Description),
			Start:       models.Time(d),
			End:         models.Time(d),
			Completed:   models.Bool(completed),
		}); err != nil {
			return report, err
		}
		report.Updated++
	}

	logger.Info("Task sync complete", "created", report.Created, "updated", report.Updated,
		"deleted", report.Deleted, "skipped", report.Skipped)
	return report, nil
}
