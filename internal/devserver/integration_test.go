package devserver

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorhub/taskdesk/internal/apierrors"
	"github.com/gestorhub/taskdesk/internal/gateway"
	"github.com/gestorhub/taskdesk/internal/list"
	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/optimistic"
	"github.com/gestorhub/taskdesk/internal/query"
)

// TestClientAgainstServer drives the typed client through a full session
// against the in-process server: login, create, paginate, optimistic
// status flip, notes and timeline.
func TestClientAgainstServer(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.SeedDefaults())

	srv := httptest.NewServer(New(store, nil).Handler())
	defer srv.Close()
	ctx := context.Background()

	creds, err := gateway.Login(ctx, srv.URL, "admin@dev.local", "admin", srv.Client())
	require.NoError(t, err)
	require.NotEmpty(t, creds.Token)

	client := gateway.NewClient(srv.URL, creds.Token, srv.Client())

	var created []*models.Task
	for _, title := range []string{"first", "second", "third"} {
		task, err := client.CreateTask(ctx, gateway.CreateTaskInput{Title: title})
		require.NoError(t, err)
		created = append(created, task)
	}

	// Paginate the whole list through the controller, two at a time.
	ctrl := list.New(client, 2)
	ctrl.Reset(query.TabAll, query.Filters{}, "")
	require.NoError(t, ctrl.FetchFirstPage(ctx))
	assert.Len(t, ctrl.Tasks(), 2)
	assert.True(t, ctrl.HasMore())

	require.NoError(t, ctrl.FetchNextPage(ctx))
	assert.Len(t, ctrl.Tasks(), 3)
	assert.False(t, ctrl.HasMore())

	// Flip one to completed through the optimistic path; the server
	// confirms, so the change must survive a refetch.
	target := created[0].ID
	mut := optimistic.New(ctrl, client)
	require.NoError(t, mut.ToggleDone(ctx, target))

	fetched, err := client.GetTask(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, fetched.Status)

	counters, err := client.StatusCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counters.All)
	assert.Equal(t, 1, counters.Completed)

	// The completed tab sees exactly the flipped task.
	ctrl.Reset(query.TabCompleted, query.Filters{}, "")
	require.NoError(t, ctrl.FetchFirstPage(ctx))
	require.Len(t, ctrl.Tasks(), 1)
	assert.Equal(t, target, ctrl.Tasks()[0].ID)

	// Notes and timeline round-trip.
	note, err := client.AddNote(ctx, target, "looks done to me")
	require.NoError(t, err)
	notes, err := client.ListNotes(ctx, target)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)

	timeline, err := client.Timeline(ctx, target)
	require.NoError(t, err)
	actions := make([]models.TimelineAction, len(timeline))
	for i, event := range timeline {
		actions[i] = event.Action
	}
	assert.Contains(t, actions, models.ActionCreated)
	assert.Contains(t, actions, models.ActionStatusChanged)

	// Soft delete, then bring it back.
	require.NoError(t, client.DeleteTask(ctx, target))
	_, err = client.GetTask(ctx, target)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	restored, err := client.RestoreTask(ctx, target)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
}
