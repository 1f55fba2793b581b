package model

import (
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// IsValid reports whether s is one of the known task statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is one of the known task priorities
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single tracked work item. IsOverdue is derived from DueDate,
// Status and the current date; see Overdue.
type Task struct {
	ID          string
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	DueDate     *Date
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	IsOverdue   bool
}

// Overdue reports whether the task is past its due date on the given day.
// Completed tasks are never overdue.
func (t Task) Overdue(today Date) bool {
	return t.DueDate != nil && t.DueDate.Before(today) && t.Status != StatusCompleted
}

// WithOverdue returns a copy of the task with IsOverdue recomputed for today.
func (t Task) WithOverdue(today Date) Task {
	t.IsOverdue = t.Overdue(today)
	return t
}
