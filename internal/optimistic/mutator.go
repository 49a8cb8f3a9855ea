// Package optimistic applies task mutations locally before the server
// confirms them, restoring the exact pre-mutation snapshot when the write
// fails.
package optimistic

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestorhub/taskdesk/internal/gateway"
	"github.com/gestorhub/taskdesk/internal/models"
)

var ErrTaskNotLoaded = errors.New("task is not present in the current list")

// TaskWriter is the write side the mutator needs from the REST client.
type TaskWriter interface {
	UpdateTask(ctx context.Context, id string, patch gateway.TaskPatch) (*models.Task, error)
}

// Store is the list container mutations flow through. Keeping reads and
// writes on the same container is what prevents the optimistic state and
// the fetched state from diverging.
type Store interface {
	TaskByID(id string) (models.Task, bool)
	ReplaceTask(task models.Task)
}

// Mutation changes a task in place and returns the partial patch that
// carries only the changed fields to the server.
type Mutation func(task *models.Task) gateway.TaskPatch

// Mutator coordinates snapshot, local apply, write and rollback.
type Mutator struct {
	store  Store
	writer TaskWriter
}

// New creates a Mutator over the given store and writer.
func New(store Store, writer TaskWriter) *Mutator {
	return &Mutator{store: store, writer: writer}
}

// Apply captures a snapshot of the task, applies the mutation to the
// in-memory list immediately, then issues the write. On rejection the
// snapshot is restored verbatim for that task only; a generic re-fetch
// would clobber concurrent unrelated edits.
func (m *Mutator) Apply(ctx context.Context, taskID string, mutation Mutation) error {
	snapshot, ok := m.store.TaskByID(taskID)
	if !ok {
		return ErrTaskNotLoaded
	}

	mutated := snapshot
	patch := mutation(&mutated)
	m.store.ReplaceTask(mutated)

	if _, err := m.writer.UpdateTask(ctx, taskID, patch); err != nil {
		m.store.ReplaceTask(snapshot)
		return fmt.Errorf("optimistic update rejected: %w", err)
	}
	return nil
}

// SetStatus toggles a task's status optimistically. The status enum makes
// the completed/in-progress exclusivity structural: a task holds exactly
// one status at a time.
func (m *Mutator) SetStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	if !status.Valid() {
		return models.ErrInvalidTaskStatus
	}
	return m.Apply(ctx, taskID, func(task *models.Task) gateway.TaskPatch {
		task.Status = status
		s := status
		return gateway.TaskPatch{Status: &s}
	})
}

// ToggleDone flips a task between completed and pending. Completing a task
// that was in progress leaves the in-progress state behind entirely.
func (m *Mutator) ToggleDone(ctx context.Context, taskID string) error {
	task, ok := m.store.TaskByID(taskID)
	if !ok {
		return ErrTaskNotLoaded
	}
	next := models.TaskStatusCompleted
	if task.Status == models.TaskStatusCompleted {
		next = models.TaskStatusPending
	}
	return m.SetStatus(ctx, taskID, next)
}

// ToggleInProgress flips a task between in-progress and pending. Starting
// a completed task reopens it.
func (m *Mutator) ToggleInProgress(ctx context.Context, taskID string) error {
	task, ok := m.store.TaskByID(taskID)
	if !ok {
		return ErrTaskNotLoaded
	}
	next := models.TaskStatusInProgress
	if task.Status == models.TaskStatusInProgress {
		next = models.TaskStatusPending
	}
	return m.SetStatus(ctx, taskID, next)
}
