package models

import (
	"encoding/json"
	"time"
)

// Note is a free-text comment on a task, editable and deletable by its
// author.
type Note struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Attachment is a file owned by a task. The server cascades deletion when
// the owning task is deleted.
type Attachment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploaderID string    `json:"uploader_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TimelineAction tags a timeline event. The details payload shape depends
// on the action.
type TimelineAction string

const (
	ActionCreated            TimelineAction = "created"
	ActionUpdated            TimelineAction = "updated"
	ActionDeleted            TimelineAction = "deleted"
	ActionRestored           TimelineAction = "restored"
	ActionStatusChanged      TimelineAction = "status-changed"
	ActionNoteAdded          TimelineAction = "note-added"
	ActionNoteUpdated        TimelineAction = "note-updated"
	ActionNoteDeleted        TimelineAction = "note-deleted"
	ActionAttachmentAdded    TimelineAction = "attachment-added"
	ActionAttachmentDeleted  TimelineAction = "attachment-deleted"
	ActionChargeAdded        TimelineAction = "charge-added"
	ActionChargeEmailed      TimelineAction = "charge-emailed"
	ActionPaymentRegistered  TimelineAction = "payment-registered"
	ActionRecurrenceCreated  TimelineAction = "recurrence-created"
	ActionRecurrenceFinished TimelineAction = "recurrence-finished"
	ActionAssigneeChanged    TimelineAction = "assignee-changed"
)

// TimelineEvent is an append-only audit record. Events are never mutated
// or deleted by clients.
type TimelineEvent struct {
	ID        string          `json:"id"`
	TaskID    string          `json:"task_id"`
	Action    TimelineAction  `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	ActorID   string          `json:"actor_id"`
	CreatedAt time.Time       `json:"created_at"`
}
