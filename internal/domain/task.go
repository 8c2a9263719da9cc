package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a task. Declaration order is the
// sort order (NOT_STARTED < IN_PROGRESS < DONE).
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// TaskPriority is the urgency of a task. Declaration order is the sort
// order (URGENT < HIGH < MEDIUM < LOW).
type TaskPriority string

const (
	PriorityUrgent TaskPriority = "URGENT"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityLow    TaskPriority = "LOW"
)

var taskStatuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusDone}

var taskPriorities = []TaskPriority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// ParseTaskStatus maps the wire value onto a known status.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	for _, v := range taskStatuses {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// ParseTaskPriority maps the wire value onto a known priority.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	for _, v := range taskPriorities {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// Ordinal returns the declaration index of the status, or -1 for an
// unknown value.
func (s TaskStatus) Ordinal() int {
	for i, v := range taskStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Ordinal returns the declaration index of the priority, or -1 for an
// unknown value.
func (p TaskPriority) Ordinal() int {
	for i, v := range taskPriorities {
		if v == p {
			return i
		}
	}
	return -1
}

// Task is the domain entity. ID and OwnerID are assigned at creation and
// never change afterwards; updates replace the remaining fields wholesale.
type Task struct {
	ID          uuid.UUID
	Name        string
	Description string
	DueDate     *time.Time
	Status      TaskStatus
	Priority    TaskPriority
	Tags        []string
	OwnerID     uuid.UUID
}

// NewTask builds a task for the given owner with a fresh id and the
// default NOT_STARTED status.
func NewTask(name, description string, dueDate *time.Time, priority TaskPriority, tags []string, ownerID uuid.UUID) Task {
	return Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		DueDate:     dueDate,
		Status:      StatusNotStarted,
		Priority:    priority,
		Tags:        append([]string(nil), tags...),
		OwnerID:     ownerID,
	}
}

// Clone returns a value copy whose tag slice does not alias the receiver's.
func (t Task) Clone() Task {
	out := t
	out.Tags = append([]string(nil), t.Tags...)
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}

// HasTag reports exact, case-sensitive tag membership.
func (t Task) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}
