package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
)

// ErrInvalidPreferences is returned when preferences fail validation
var ErrInvalidPreferences = errors.New("invalid preferences")

// WorkingHours bounds the rendered hour grid. Events outside it are not filtered.
type WorkingHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// UserPreferences is the persisted display configuration
type UserPreferences struct {
	DefaultView      constants.ViewMode             `json:"defaultView"`
	FirstDayOfWeek   time.Weekday                   `json:"firstDayOfWeek"`
	WorkingHours     WorkingHours                   `json:"workingHours"`
	RemindersEnabled bool                           `json:"remindersEnabled"`
	ColorMap         map[constants.EventType]string `json:"colorMap"`
}

// DefaultPreferences returns the preferences used by a fresh store
func DefaultPreferences() UserPreferences {
	colors := make(map[constants.EventType]string, len(constants.DefaultColors))
	for k, v := range constants.DefaultColors {
		colors[k] = v
	}
	return UserPreferences{
		DefaultView:      constants.ViewWeek,
		FirstDayOfWeek:   time.Sunday,
		WorkingHours:     WorkingHours{Start: constants.DefaultGridStart, End: constants.DefaultGridEnd},
		RemindersEnabled: true,
		ColorMap:         colors,
	}
}

// ColorFor returns the configured color for t, falling back to the default palette
func (p UserPreferences) ColorFor(t constants.EventType) string {
	if c, ok := p.ColorMap[t]; ok && c != "" {
		return c
	}
	return constants.DefaultColors[t]
}

// Normalize fills zero values with defaults
func (p *UserPreferences) Normalize() {
	def := DefaultPreferences()
	if p.DefaultView == "" {
		p.DefaultView = def.DefaultView
	}
	if p.WorkingHours.Start == 0 && p.WorkingHours.End == 0 {
		p.WorkingHours = def.WorkingHours
	}
	if p.ColorMap == nil {
		p.ColorMap = def.ColorMap
		return
	}
	for k, v := range def.ColorMap {
		if p.ColorMap[k] == "" {
			p.ColorMap[k] = v
		}
	}
}

// Clone returns a copy with its own color map
func (p UserPreferences) Clone() UserPreferences {
	c := p
	c.ColorMap = make(map[constants.EventType]string, len(p.ColorMap))
	for k, v := range p.ColorMap {
		c.ColorMap[k] = v
	}
	return c
}

// Validate checks the preference invariants
func (p UserPreferences) Validate() error {
	switch p.DefaultView {
	case constants.ViewDay, constants.ViewWeek, constants.ViewMonth:
	default:
		return fmt.Errorf("%w: default view %q must be day, week or month", ErrInvalidPreferences, p.DefaultView)
	}
	switch p.FirstDayOfWeek {
	case time.Sunday, time.Monday, time.Saturday:
	default:
		return fmt.Errorf("%w: first day of week must be Sunday, Monday or Saturday, got %s", ErrInvalidPreferences, p.FirstDayOfWeek)
	}
	if p.WorkingHours.Start < 0 || p.WorkingHours.End > 24 || p.WorkingHours.Start >= p.WorkingHours.End {
		return fmt.Errorf("%w: working hours %d-%d must satisfy 0 <= start < end <= 24", ErrInvalidPreferences, p.WorkingHours.Start, p.WorkingHours.End)
	}
	for t, c := range p.ColorMap {
		if !ValidEventType(t) {
			return fmt.Errorf("%w: unknown event type %q in color map", ErrInvalidPreferences, t)
		}
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: empty color for %s", ErrInvalidPreferences, t)
		}
	}
	return nil
}

// ParseWeekday accepts sunday, monday or saturday (case-insensitive, three-letter prefixes allowed)
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun", "sunday":
		return time.Sunday, nil
	case "mon", "monday":
		return time.Monday, nil
	case "sat", "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("%w: first day of week must be sunday, monday or saturday, got %q", ErrInvalidPreferences, s)
}
