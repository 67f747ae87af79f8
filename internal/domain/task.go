package domain

import "time"

// Task is a single to-do item. OwnerID is fixed when the task is created.
type Task struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
}

// TaskPatch carries the fields of an update request. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}
