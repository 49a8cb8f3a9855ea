package models

import (
	"errors"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "inProgress"
	TaskStatusCompleted  TaskStatus = "completed"
)

var ErrInvalidTaskStatus = errors.New("invalid task status")

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type AssignmentType string

const (
	AssignmentIndividual AssignmentType = "individual"
	AssignmentGroup      AssignmentType = "group"
)

// Assignment describes who is responsible for a task. Exactly one of
// UserID or UserIDs is populated, selected by Type.
type Assignment struct {
	Type    AssignmentType `json:"type"`
	UserID  string         `json:"user_id,omitempty"`
	UserIDs []string       `json:"user_ids,omitempty"`
}

// AssignIndividual builds an individual assignment.
func AssignIndividual(userID string) Assignment {
	return Assignment{Type: AssignmentIndividual, UserID: userID}
}

// AssignGroup builds a group assignment.
func AssignGroup(userIDs []string) Assignment {
	return Assignment{Type: AssignmentGroup, UserIDs: userIDs}
}

// Responsible returns the set of user IDs responsible for the task,
// regardless of assignment mode.
func (a Assignment) Responsible() []string {
	if a.Type == AssignmentGroup {
		return a.UserIDs
	}
	if a.UserID == "" {
		return nil
	}
	return []string{a.UserID}
}

// Charge holds billing information for a task. A task without billing
// carries a nil *Charge.
type Charge struct {
	Value       float64    `json:"value"`
	Paid        bool       `json:"paid"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// Recurrence holds the repetition rule of a recurrent task. Nil on
// non-recurrent tasks.
type Recurrence struct {
	Type    RecurrenceType `json:"type"`
	EndDate *time.Time     `json:"end_date,omitempty"`
	Count   int            `json:"count,omitempty"`
}

// Task is the central entity mirrored from the server.
type Task struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Body       string      `json:"body,omitempty"`
	DueDate    *time.Time  `json:"due_date,omitempty"`
	Status     TaskStatus  `json:"status"`
	Private    bool        `json:"private"`
	Recurrence *Recurrence `json:"recurrence,omitempty"`
	Charge     *Charge     `json:"charge,omitempty"`
	CategoryID string      `json:"category_id,omitempty"`
	SubjectID  string      `json:"subject_id,omitempty"`
	EmployerID string      `json:"employer_id,omitempty"`
	Assignment Assignment  `json:"assignment"`
	CreatorID  string      `json:"creator_id"`
	CompanyID  string      `json:"company_id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	DeletedAt  *time.Time  `json:"deleted_at,omitempty"`
}

// Recurrent reports whether the task carries a recurrence rule.
func (t Task) Recurrent() bool {
	return t.Recurrence != nil
}

// Deleted reports whether the task has been soft deleted.
func (t Task) Deleted() bool {
	return t.DeletedAt != nil
}
