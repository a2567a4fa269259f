package tasklist

import "errors"

var (
	// ErrValidationRejected is returned when a title is empty after trimming.
	ErrValidationRejected = errors.New("title cannot be empty")

	// ErrTaskNotFound is returned when a mutation targets a task that is not
	// in the list.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCorruptState is returned by Open and Decode when the persisted value
	// cannot be read back as a task list.
	ErrCorruptState = errors.New("corrupt task state")
)
