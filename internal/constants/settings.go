package constants

// Preference keys used by the key/value preferences table
const (
	PrefDefaultView       = "default_view"
	PrefFirstDayOfWeek    = "first_day_of_week"
	PrefWorkingHoursStart = "working_hours_start"
	PrefWorkingHoursEnd   = "working_hours_end"
	PrefRemindersEnabled  = "reminders_enabled"
	PrefColorPrefix       = "color_"
)

// DefaultColors is the color map used when no preference is stored
var DefaultColors = map[EventType]string{
	EventTypeTask:         "#3b82f6",
	EventTypeStudySession: "#10b981",
	EventTypePomodoro:     "#ef4444",
	EventTypeExam:         "#f59e0b",
}
