// Package prefs persists the per-session view preferences. The only thing
// stored is the chosen view mode; filters are deliberately session-only.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type ViewMode string

const (
	ViewList   ViewMode = "list"
	ViewKanban ViewMode = "kanban"
)

type prefsFile struct {
	ViewMode ViewMode `json:"view_mode"`
}

// Store reads and writes the preference file.
type Store struct {
	path string
}

// NewStore creates a Store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// ViewMode returns the persisted view mode. A missing, corrupt or unknown
// value falls back to the list view.
func (s *Store) ViewMode() ViewMode {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ViewList
	}
	var file prefsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return ViewList
	}
	if file.ViewMode != ViewList && file.ViewMode != ViewKanban {
		return ViewList
	}
	return file.ViewMode
}

// SetViewMode persists the view mode.
func (s *Store) SetViewMode(mode ViewMode) error {
	if mode != ViewList && mode != ViewKanban {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preference directory: %w", err)
	}
	data, err := json.MarshalIndent(prefsFile{ViewMode: mode}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
