package project

import "errors"

var (
	// ErrProjectNotFound is returned when a project ID does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when a task ID does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidStatus is returned for a status value outside the
	// accepted set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned for a priority value outside the
	// accepted set.
	ErrInvalidPriority = errors.New("invalid priority")
)
