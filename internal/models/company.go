package models

import "time"

// Company is a tenant on the platform. Only the administration surface
// deals with companies; everything else is implicitly scoped to one.
type Company struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Plan       string     `json:"plan,omitempty"`
	Blocked    bool       `json:"blocked"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	UsersCount int        `json:"users_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

// StatusCounters carries the per-tab task counts shown next to the tab
// labels.
type StatusCounters struct {
	All        int `json:"all"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Paid       int `json:"paid"`
	Unpaid     int `json:"unpaid"`
	Recurrent  int `json:"recurrent"`
}

// User is the minimal user reference embedded in tasks and notes.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
