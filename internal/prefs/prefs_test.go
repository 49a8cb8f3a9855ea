package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestViewMode_DefaultsToList verifies a missing file yields the list
// view.
func TestViewMode_DefaultsToList(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prefs.json"))
	assert.Equal(t, ViewList, store.ViewMode())
}

// TestSetViewMode_RoundTrips verifies the persisted mode survives a new
// store over the same path.
func TestSetViewMode_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	store := NewStore(path)

	require.NoError(t, store.SetViewMode(ViewKanban))

	assert.Equal(t, ViewKanban, store.ViewMode())
	assert.Equal(t, ViewKanban, NewStore(path).ViewMode())
}

// TestViewMode_CorruptFileFallsBack verifies garbage on disk never breaks
// startup.
func TestViewMode_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Equal(t, ViewList, NewStore(path).ViewMode())
}

// TestViewMode_UnknownValueFallsBack verifies forward compatibility with
// modes this build does not know.
func TestViewMode_UnknownValueFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"view_mode":"timeline"}`), 0o644))

	assert.Equal(t, ViewList, NewStore(path).ViewMode())
}
