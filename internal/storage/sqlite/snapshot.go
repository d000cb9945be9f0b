package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

const selectEvents = `SELECT id, position, title, description, start_at, end_at, all_day, type, color,
	linked_id, completed, recurring, reminders FROM events ORDER BY position`

const insertEvent = `INSERT INTO events (id, position, title, description, start_at, end_at, all_day, type, color,
	linked_id, completed, recurring, reminders) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) GetSnapshot() (models.Snapshot, error) {
	if s.db == nil {
		return models.Snapshot{}, storage.ErrNotLoaded
	}

	rows, err := s.db.Query(selectEvents)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	snap := models.Snapshot{Events: []models.CalendarEvent{}}
	for rows.Next() {
		var r storage.EventRow
		if err := rows.Scan(&r.ID, &r.Position, &r.Title, &r.Description, &r.StartAt, &r.EndAt, &r.AllDay,
			&r.Type, &r.Color, &r.LinkedID, &r.Completed, &r.Recurring, &r.Reminders); err != nil {
			return models.Snapshot{}, fmt.Errorf("failed to scan event: %w", err)
		}
		ev, err := storage.DecodeEvent(r)
		if err != nil {
			return models.Snapshot{}, err
		}
		snap.Events = append(snap.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return models.Snapshot{}, err
	}

	kv, err := s.readPreferences()
	if err != nil {
		return models.Snapshot{}, err
	}
	snap.UserPreferences, err = storage.PreferencesFromKV(kv)
	if err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}

// SaveSnapshot replaces every event and preference row in one transaction
func (s *Store) SaveSnapshot(snap models.Snapshot) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}

	stmt, err := tx.Prepare(insertEvent)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ev := range snap.Events {
		r, err := storage.EncodeEvent(ev, i)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(r.ID, r.Position, r.Title, r.Description, r.StartAt, r.EndAt, r.AllDay,
			r.Type, r.Color, r.LinkedID, r.Completed, r.Recurring, r.Reminders); err != nil {
			return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
		}
	}

	if err := s.writePreferences(tx, storage.PreferencesToKV(snap.UserPreferences)); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) readPreferences() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM preferences")
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	kv := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		kv[key] = value
	}
	return kv, rows.Err()
}

func (s *Store) writePreferences(ex execer, kv map[string]string) error {
	if _, err := ex.Exec("DELETE FROM preferences"); err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}
	for key, value := range kv {
		if _, err := ex.Exec("INSERT INTO preferences (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
	}
	return nil
}
