package realtime

import (
	"context"
	"log"
	"sync"
)

// DetailHooks are the scoped refetchers of an open task detail view. Nil
// hooks are skipped.
type DetailHooks struct {
	Notes       func(ctx context.Context) error
	Attachments func(ctx context.Context) error
	Timeline    func(ctx context.Context) error
}

// Invalidator routes channel events to refresh actions: list-scoped tags
// refresh the task list and tab counters; detail-scoped tags matching the
// currently open task refetch only that sub-resource.
type Invalidator struct {
	refreshList     func(ctx context.Context) error
	refreshCounters func(ctx context.Context) error

	mu           sync.Mutex
	detailTaskID string
	detail       DetailHooks
}

// NewInvalidator creates an Invalidator with the list-scoped refresh
// actions. Either may be nil.
func NewInvalidator(refreshList, refreshCounters func(ctx context.Context) error) *Invalidator {
	return &Invalidator{
		refreshList:     refreshList,
		refreshCounters: refreshCounters,
	}
}

// OpenDetail registers the hooks of a task detail view and returns the
// release to call on teardown. Opening a second detail replaces the first;
// the release only clears its own registration.
func (inv *Invalidator) OpenDetail(taskID string, hooks DetailHooks) func() {
	inv.mu.Lock()
	inv.detailTaskID = taskID
	inv.detail = hooks
	inv.mu.Unlock()

	return func() {
		inv.mu.Lock()
		defer inv.mu.Unlock()
		if inv.detailTaskID == taskID {
			inv.detailTaskID = ""
			inv.detail = DetailHooks{}
		}
	}
}

// Run consumes the subscription until ctx is done or the stream closes.
// Handler failures are logged and never stop the loop: a missed refresh is
// repaired by the next event or by the mount-time full refresh.
func (inv *Invalidator) Run(ctx context.Context, sub Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			inv.dispatch(ctx, event)
		}
	}
}

func (inv *Invalidator) dispatch(ctx context.Context, event Event) {
	if event.Type.ListScoped() {
		if inv.refreshList != nil {
			if err := inv.refreshList(ctx); err != nil {
				log.Printf("list refresh after %s failed: %v", event.Type, err)
			}
		}
		if inv.refreshCounters != nil {
			if err := inv.refreshCounters(ctx); err != nil {
				log.Printf("counter refresh after %s failed: %v", event.Type, err)
			}
		}
		return
	}

	inv.mu.Lock()
	taskID := inv.detailTaskID
	hooks := inv.detail
	inv.mu.Unlock()

	if taskID == "" || taskID != event.TaskID {
		return
	}

	var scoped func(ctx context.Context) error
	switch event.Type {
	case EventNoteAdded, EventNoteUpdated, EventNoteDeleted:
		scoped = hooks.Notes
	case EventAttachmentAdded, EventAttachmentDeleted:
		scoped = hooks.Attachments
	}
	if scoped != nil {
		if err := scoped(ctx); err != nil {
			log.Printf("detail refresh after %s failed: %v", event.Type, err)
		}
	}
	if hooks.Timeline != nil {
		if err := hooks.Timeline(ctx); err != nil {
			log.Printf("timeline refresh after %s failed: %v", event.Type, err)
		}
	}
}
