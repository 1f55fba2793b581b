package service

import "errors"

var (
	// ErrValidation wraps field-level problems found in create/update input
	ErrValidation = errors.New("validation failed")

	// ErrDueDateNotInFuture is returned when a due date is today or earlier
	ErrDueDateNotInFuture = errors.New("due_date must be a future date")

	// ErrTaskInProgress is returned when deleting a task that is in progress
	ErrTaskInProgress = errors.New("cannot delete a task that is in progress")
)
