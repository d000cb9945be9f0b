package constants

import "time"

// ConflictType represents the type of validation conflict
type ConflictType string

// EventType is the closed set of calendar event kinds
type EventType string

// ViewMode selects the span shown by a calendar view
type ViewMode string

// Frequency is the repeat unit of a recurring event
type Frequency string

const (
	AppName            = "studylit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/studylit"
	DefaultConfigPath  = "~/.config/studylit/studylit.db"
	DefaultConfigFile  = "~/.config/studylit/config.yaml"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// ICSTimeFormat is the compact UTC timestamp used in exported calendars
	ICSTimeFormat = "20060102T150405Z"

	// ICSProductID identifies this application in exported calendars
	ICSProductID = "-//studylit//Study Calendar//EN"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "studylit-"

	// Layout constants
	DefaultHourHeight  = 60
	MinEventMinutes    = 30
	DefaultGridStart   = 8
	DefaultGridEnd     = 20
	MaxOccurrences     = 1000
	DefaultSyncPattern = "*/5 * * * *"

	// TaskStatusCompleted is the task status that marks a linked event completed
	TaskStatusCompleted = "Completed"

	// Pomodoro titles
	PomodoroTitlePrefix  = "Pomodoro: "
	PomodoroDefaultTitle = "Pomodoro Session"

	// Event types
	EventTypeTask         EventType = "task"
	EventTypeStudySession EventType = "studySession"
	EventTypePomodoro     EventType = "pomodoro"
	EventTypeExam         EventType = "exam"

	// View modes
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"

	// Recurrence frequencies
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"

	// Conflict Types
	ConflictStartAfterEnd     ConflictType = "start_after_end"
	ConflictDuplicateLinkedID ConflictType = "duplicate_linked_id"
	ConflictOrphanedLink      ConflictType = "orphaned_link"
	ConflictUnknownType       ConflictType = "unknown_type"
	ConflictUnexpectedLink    ConflictType = "unexpected_link"
	ConflictInvalidRecurrence ConflictType = "invalid_recurrence"

	// WatchShutdownTimeout bounds how long watch waits for a running pass on exit
	WatchShutdownTimeout = 30 * time.Second
	WatchLockFileName    = "studylit.watch.lock"
)

// EventTypes lists every valid event type in display order
var EventTypes = []EventType{
	EventTypeTask,
	EventTypeStudySession,
	EventTypePomodoro,
	EventTypeExam,
}
