package model

import "github.com/google/uuid"

// Task is the domain model for a task list entry.
// ID is assigned in memory when the task is created or loaded and is never
// persisted; two tasks with the same title are still distinct.
type Task struct {
	ID          uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
}

// New returns an uncompleted task with a fresh identity.
func New(title string) Task {
	return Task{ID: uuid.New(), Title: title}
}

// Completed returns a copy of t with IsCompleted set. Identity is kept.
func (t Task) Completed() Task {
	t.IsCompleted = true
	return t
}
