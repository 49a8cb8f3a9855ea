// Package realtime consumes the tenant's change-notification channel.
// Events are at-most-once, unordered and advisory: every event is a
// trigger to refresh authoritative state, never an authoritative delta.
package realtime

import "context"

// EventType tags a change notification.
type EventType string

const (
	EventTaskCreated       EventType = "task-created"
	EventTaskUpdated       EventType = "task-updated"
	EventTaskDeleted       EventType = "task-deleted"
	EventTaskStatusUpdated EventType = "task-status-updated"
	EventNoteAdded         EventType = "task-note-added"
	EventNoteUpdated       EventType = "task-note-updated"
	EventNoteDeleted       EventType = "task-note-deleted"
	EventAttachmentAdded   EventType = "task-attachment-added"
	EventAttachmentDeleted EventType = "task-attachment-deleted"
)

// ListScoped reports whether the event invalidates the whole task list
// rather than one open detail view.
func (t EventType) ListScoped() bool {
	switch t {
	case EventTaskCreated, EventTaskUpdated, EventTaskDeleted, EventTaskStatusUpdated:
		return true
	}
	return false
}

// Event is the envelope delivered on the tenant channel.
type Event struct {
	Type      EventType `json:"type"`
	TaskID    string    `json:"task_id,omitempty"`
	CompanyID string    `json:"company_id"`
}

// Subscription is a live stream of events for one tenant. Close releases
// the underlying consumer; it must be called on view teardown on every
// exit path.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// Channel hands out subscriptions keyed by tenant.
type Channel interface {
	Subscribe(ctx context.Context, companyID string) (Subscription, error)
}
