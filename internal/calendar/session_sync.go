package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

// SessionOptions tunes the session reconciler
type SessionOptions struct {
	// ReconcileExisting also patches drifted pomodoro events and deletes those
	// whose session disappeared. When false the pass only creates missing events.
	ReconcileExisting bool
	// Location interprets timestamps that carry no offset; nil means time.Local
	Location *time.Location
}

// SessionReconciler mirrors pomodoro sessions into timed events of type pomodoro
type SessionReconciler struct {
	store    *Store
	sessions PomodoroSource
	tasks    TaskSource
	opts     SessionOptions
}

// NewSessionReconciler builds a reconciler. tasks may be nil, in which case every
// event gets the generic session title.
func NewSessionReconciler(store *Store, sessions PomodoroSource, tasks TaskSource, opts SessionOptions) *SessionReconciler {
	return &SessionReconciler{store: store, sessions: sessions, tasks: tasks, opts: opts}
}

type sessionSpan struct {
	start time.Time
	end   time.Time
	title string
}

// Sync runs one reconciliation pass. Sessions with unparsable timestamps are
// skipped and counted.
func (r *SessionReconciler) Sync() (SyncReport, error) {
	var report SyncReport

	sessions, err := r.sessions.Sessions()
	if err != nil {
		return report, fmt.Errorf("failed to read pomodoro sessions: %w", err)
	}
	titles, err := r.taskTitles()
	if err != nil {
		return report, err
	}
	loc := locationOrLocal(r.opts.Location)

	byID := make(map[string]models.PomodoroSession, len(sessions))
	spans := make(map[string]sessionSpan, len(sessions))
	for _, s := range sessions {
		if _, dup := byID[s.ID]; dup {
			continue
		}
		byID[s.ID] = s
		span, err := sessionSpanFor(s, titles, loc)
		if err != nil {
			logger.Warn("Skipping pomodoro session with invalid timestamps", "session", s.ID, "error", err)
			report.Skipped++
			continue
		}
		spans[s.ID] = span
	}

	var existing []models.CalendarEvent
	linked := map[string]bool{}
	for _, ev := range r.store.List() {
		if ev.Type != constants.EventTypePomodoro || ev.LinkedID == "" {
			continue
		}
		if linked[ev.LinkedID] && r.opts.ReconcileExisting {
			if err := r.store.DeleteEvent(ev.ID); err != nil {
				return report, err
			}
			report.Deleted++
			continue
		}
		linked[ev.LinkedID] = true
		existing = append(existing, ev)
	}

	prefs := r.store.Preferences()
	for _, s := range sessions {
		span, ok := spans[s.ID]
		if !ok || linked[s.ID] {
			continue
		}
		_, err := r.store.AddEvent(models.CalendarEvent{
			Title:     span.title,
			Start:     span.start,
			End:       span.end,
			AllDay:    false,
			Type:      constants.EventTypePomodoro,
			Color:     prefs.ColorFor(constants.EventTypePomodoro),
			LinkedID:  s.ID,
			Completed: models.Bool(s.Completed),
		})
		if err != nil {
			return report, err
		}
		linked[s.ID] = true
		report.Created++
	}

	if r.opts.ReconcileExisting {
		for _, ev := range existing {
			s, ok := byID[ev.LinkedID]
			if !ok {
				if err := r.store.DeleteEvent(ev.ID); err != nil {
					return report, err
				}
				report.Deleted++
				continue
			}
			span, ok := spans[s.ID]
			if !ok {
				continue
			}
			if ev.Title == span.title && ev.Start.Equal(span.start) && ev.End.Equal(span.end) && ev.IsCompleted() == s.Completed {
				continue
			}
			if err := r.store.UpdateEvent(ev.ID, models.EventPatch{
				Title:     models.String(span.title),
				Start:     models.Time(span.start),
				End:       models.Time(span.end),
				Completed: models.Bool(s.Completed),
			}); err != nil {
				return report, err
			}
			report.Updated++
		}
	}

	logger.Info("Pomodoro sync complete", "created", report.Created, "updated", report.Updated,
		"deleted", report.Deleted, "skipped", report.Skipped)
	return report, nil
}

func (r *SessionReconciler) taskTitles() (map[string]string, error) {
	titles := map[string]string{}
	if r.tasks == nil {
		return titles, nil
	}
	tasks, err := r.tasks.Tasks()
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	for _, t := range tasks {
		if _, ok := titles[t.ID]; !ok {
			titles[t.ID] = t.Title
		}
	}
	return titles, nil
}

// sessionSpanFor derives start, end and title. end falls back to start + duration.
func sessionSpanFor(s models.PomodoroSession, titles map[string]string, loc *time.Location) (sessionSpan, error) {
	start, err := utils.ParseTimestamp(s.StartTime, loc)
	if err != nil {
		return sessionSpan{}, fmt.Errorf("start: %w", err)
	}
	end := start.Add(time.Duration(s.Duration) * time.Minute)
	if s.EndTime != "" {
		end, err = utils.ParseTimestamp(s.EndTime, loc)
		if err != nil {
			return sessionSpan{}, fmt.Errorf("end: %w", err)
		}
	}

	title := constants.PomodoroDefaultTitle
	if s.TaskID != "" {
		if t, ok := titles[s.TaskID]; ok {
			title = constants.PomodoroTitlePrefix + t
		}
	}
	return sessionSpan{start: start, end: end, title: title}, nil
}
