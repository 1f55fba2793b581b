package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task with the given id is not stored
	ErrTaskNotFound = errors.New("task not found")
)
