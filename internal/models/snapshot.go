package models

// Snapshot is the durable state of the event store
type Snapshot struct {
	Events          []CalendarEvent `json:"events"`
	UserPreferences UserPreferences `json:"userPreferences"`
}

// NewSnapshot returns an empty snapshot with default preferences
func NewSnapshot() Snapshot {
	return Snapshot{
		Events:          []CalendarEvent{},
		UserPreferences: DefaultPreferences(),
	}
}
