package models

import "time"

// TaskCategory is a tenant-scoped tag attached to tasks. TasksCount is the
// server-maintained usage counter; a category with a non-zero count cannot
// be deleted.
type TaskCategory struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TasksCount int       `json:"tasks_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TaskSubject is a tenant-scoped tag with the same semantics as
// TaskCategory.
type TaskSubject struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TasksCount int       `json:"tasks_count"`
	CreatedAt  time.Time `json:"created_at"`
}
