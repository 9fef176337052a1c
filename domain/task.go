package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// StatusOptions lists statuses in the order filters present them.
var StatusOptions = []string{string(StatusToDo), string(StatusInProgress), string(StatusCompleted)}

// PriorityOptions lists priorities in the order filters present them.
var PriorityOptions = []string{string(PriorityHigh), string(PriorityMedium), string(PriorityLow)}

// Task is a single unit of work as served by the tasks endpoint.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Assignee       string   `json:"assignee"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	DueDate        string   `json:"due_date"`
	CompletionDate *string  `json:"completion_date"`
	EstimatedHours float64  `json:"estimated_hours"`
	Completed      bool     `json:"completed"`
	CreatedAt      string   `json:"createdAt,omitempty"`
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Validate checks the record invariants and returns every violation joined
// into one error, or nil.
func (t Task) Validate() error {
	var errs []error
	if strings.TrimSpace(t.ID) == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if !t.Status.Valid() {
		errs = append(errs, fmt.Errorf("unknown status %q", t.Status))
	}
	if !t.Priority.Valid() {
		errs = append(errs, fmt.Errorf("unknown priority %q", t.Priority))
	}
	if t.EstimatedHours < 0 {
		errs = append(errs, fmt.Errorf("negative estimated_hours %v", t.EstimatedHours))
	}
	if t.Completed != (t.Status == StatusCompleted) {
		errs = append(errs, fmt.Errorf("completed=%t disagrees with status %q", t.Completed, t.Status))
	}
	if t.Completed != (t.CompletionDate != nil) {
		errs = append(errs, fmt.Errorf("completion_date presence disagrees with completed=%t", t.Completed))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("task %q: %w", t.ID, errors.Join(errs...))
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses the date formats found in task records. The zero time and
// false are returned for empty or unrecognised input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Due returns the parsed due date.
func (t Task) Due() (time.Time, bool) {
	return ParseDate(t.DueDate)
}

// CompletedAt returns the parsed completion date.
func (t Task) CompletedAt() (time.Time, bool) {
	if t.CompletionDate == nil {
		return time.Time{}, false
	}
	return ParseDate(*t.CompletionDate)
}
