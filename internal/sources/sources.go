// Package sources reads the external task list and pomodoro log from files.
// Both are re-read on every call so a sync always sees the current state.
package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/utils"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrSourceMissing     = errors.New("source file does not exist")
)

// TaskFile is a TaskSource backed by a JSON or YAML file
type TaskFile struct {
	Path string
}

// NewTaskFile expands ~ in path
func NewTaskFile(path string) (*TaskFile, error) {
	p, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &TaskFile{Path: p}, nil
}

func (f *TaskFile) Tasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := decodeFile(f.Path, &tasks); err != nil {
		return nil, err
	}
	for i, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("%s: task %d has no id", f.Path, i)
		}
	}
	return tasks, nil
}

// SessionFile is a PomodoroSource backed by a JSON or YAML file
type SessionFile struct {
	Path string
}

// NewSessionFile expands ~ in path
func NewSessionFile(path string) (*SessionFile, error) {
	p, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &SessionFile{Path: p}, nil
}

func (f *SessionFile) Sessions() ([]models.PomodoroSession, error) {
	var sessions []models.PomodoroSession
	if err := decodeFile(f.Path, &sessions); err != nil {
		return nil, err
	}
	for i, s := range sessions {
		if s.ID == "" {
			return nil, fmt.Errorf("%s: session %d has no id", f.Path, i)
		}
	}
	return sessions, nil
}

func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}
