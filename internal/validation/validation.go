package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/studylit/internal/calendar"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
)

// Conflict represents a detected problem in the event collection
type Conflict struct {
	Type        constants.ConflictType
	Description string
	EventIDs    []string // IDs of events involved
	LinkedID    string   // Linked task or session id (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of type t were found
func (vr ValidationResult) Count(t constants.ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var sb strings.Builder
	sb.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&sb, "- [%s] %s\n", conflict.Type, conflict.Description)
	}
	return sb.String()
}

// Validate checks events against the store invariants. When tasks is nil the
// orphaned link check is skipped, since there is nothing to compare against.
func Validate(events []models.CalendarEvent, tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for _, ev := range events {
		if ev.Start.After(ev.End) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictStartAfterEnd,
				Description: fmt.Sprintf("Event %q (%s) starts after it ends", ev.Title, ev.ID),
				EventIDs:    []string{ev.ID},
			})
		}

		if !models.ValidEventType(ev.Type) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictUnknownType,
				Description: fmt.Sprintf("Event %q (%s) has unknown type %q", ev.Title, ev.ID, ev.Type),
				EventIDs:    []string{ev.ID},
			})
		}

		if ev.LinkedID != "" && (ev.Type == constants.EventTypeExam || ev.Type == constants.EventTypeStudySession) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictUnexpectedLink,
				Description: fmt.Sprintf("%s event %q (%s) is linked to %s", ev.Type, ev.Title, ev.ID, ev.LinkedID),
				EventIDs:    []string{ev.ID},
				LinkedID:    ev.LinkedID,
			})
		}

		if ev.Recurring != nil {
			if _, err := calendar.RuleOption(*ev.Recurring, ev.Start); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        constants.ConflictInvalidRecurrence,
					Description: fmt.Sprintf("Event %q (%s): %v", ev.Title, ev.ID, err),
					EventIDs:    []string{ev.ID},
				})
			} else if ev.Recurring.Until != nil && ev.Recurring.Until.Before(ev.Start) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        constants.ConflictInvalidRecurrence,
					Description: fmt.Sprintf("Event %q (%s) repeats until %s, before it starts", ev.Title, ev.ID, ev.Recurring.Until.Format(constants.DateFormat)),
					EventIDs:    []string{ev.ID},
				})
			}
		}
	}

	// Task events sharing a linked id
	linked := make(map[string][]string)
	for _, ev := range events {
		if ev.Type == constants.EventTypeTask && ev.LinkedID != "" {
			linked[ev.LinkedID] = append(linked[ev.LinkedID], ev.ID)
		}
	}
	linkedIDs := make([]string, 0, len(linked))
	for id := range linked {
		linkedIDs = append(linkedIDs, id)
	}
	sort.Strings(linkedIDs)

	for _, linkedID := range linkedIDs {
		ids := linked[linkedID]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictDuplicateLinkedID,
				Description: fmt.Sprintf("Task %s has %d linked events (IDs: %v)", linkedID, len(ids), ids),
				EventIDs:    ids,
				LinkedID:    linkedID,
			})
		}
	}

	if tasks != nil {
		known := make(map[string]bool, len(tasks))
		for _, t := range tasks {
			known[t.ID] = true
		}
		for _, linkedID := range linkedIDs {
			if !known[linkedID] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        constants.ConflictOrphanedLink,
					Description: fmt.Sprintf("Task %s no longer exists but still has linked events (IDs: %v)", linkedID, linked[linkedID]),
					EventIDs:    linked[linkedID],
					LinkedID:    linkedID,
				})
			}
		}
	}

	return result
}
