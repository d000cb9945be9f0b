package models

// Task is a record read from the external task list
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	DueDate     string `json:"dueDate" yaml:"dueDate"` // ISO timestamp
	Status      string `json:"status" yaml:"status"`
}

// PomodoroSession is a record read from the external pomodoro log
type PomodoroSession struct {
	ID        string `json:"id" yaml:"id"`
	StartTime string `json:"startTime" yaml:"startTime"`                 // ISO timestamp
	EndTime   string `json:"endTime,omitempty" yaml:"endTime,omitempty"` // ISO timestamp, optional
	Duration  int    `json:"duration" yaml:"duration"`                   // minutes
	TaskID    string `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	Completed bool   `json:"completed" yaml:"completed"`
}
