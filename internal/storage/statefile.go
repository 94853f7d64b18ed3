package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovakirdan/tui-2048/internal/game"
)

// ErrNoState is returned by Load when no saved session exists.
var ErrNoState = errors.New("storage: no saved game state")

// StateFile persists a resumable session as JSON.
type StateFile struct {
	path string
}

// NewStateFile returns a state file at path (~ is expanded).
func NewStateFile(path string) (*StateFile, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return &StateFile{path: path}, nil
}

// Path returns the resolved file path.
func (f *StateFile) Path() string {
	return f.path
}

// Load reads the saved session.
func (f *StateFile) Load() (game.State, error) {
	var st game.State

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return st, ErrNoState
	}
	if err != nil {
		return st, fmt.Errorf("storage: cannot read state %s: %w", f.path, err)
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("storage: cannot parse state %s: %w", f.path, err)
	}
	return st, nil
}

// Save writes the session atomically: a temp file in the same directory is
// renamed over the target, so a failed write never leaves a partial file.
func (f *StateFile) Save(st game.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("storage: cannot encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("storage: cannot create temp state: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("storage: cannot write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("storage: cannot write state: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("storage: cannot replace state %s: %w", f.path, err)
	}
	return nil
}

// Remove deletes the saved session. A missing file is not an error.
func (f *StateFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: cannot remove state %s: %w", f.path, err)
	}
	return nil
}
