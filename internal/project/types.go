package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a project.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// ValidStatuses is the set of accepted project statuses.
var ValidStatuses = []Status{StatusActive, StatusCompleted, StatusArchived}

// IsValidStatus returns true if s is a recognised project status.
func IsValidStatus(s Status) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus converts a raw string into a Status, wrapping
// ErrInvalidStatus for anything outside the accepted set.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !IsValidStatus(status) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatuses is the set of accepted task statuses.
var ValidTaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}

// IsValidTaskStatus returns true if s is a recognised task status.
func IsValidTaskStatus(s TaskStatus) bool {
	for _, v := range ValidTaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseTaskStatus converts a raw string into a TaskStatus, wrapping
// ErrInvalidStatus for anything outside the accepted set.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !IsValidTaskStatus(status) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Priority ranks a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities is the set of accepted task priorities.
var ValidPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValidPriority returns true if p is a recognised task priority.
func IsValidPriority(p Priority) bool {
	for _, v := range ValidPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePriority converts a raw string into a Priority, wrapping
// ErrInvalidPriority for anything outside the accepted set.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !IsValidPriority(priority) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return priority, nil
}

// Project is a top-level unit of work grouping.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task is an individual work item within a project.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectFilter narrows a project listing. Zero values mean "no
// constraint"; Limit of 0 falls back to the repository default.
type ProjectFilter struct {
	Status Status
	Limit  int
	Offset int
}

// TaskFilter narrows a task listing within a project.
type TaskFilter struct {
	Status   TaskStatus
	Priority Priority
	Limit    int
	Offset   int
}

// NewProjectID generates a prefixed project identifier.
func NewProjectID() string {
	return "prj-" + uuid.NewString()
}

// NewTaskID generates a prefixed task identifier.
func NewTaskID() string {
	return "tsk-" + uuid.NewString()
}
