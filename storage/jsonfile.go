// Package storage persists manager state as one JSON document per
// manager. Writes go through a temp file and rename so a crash never
// leaves a half-written document behind.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotExist is returned by Load when the state file has never been
// written. Callers start from empty state in that case.
var ErrNotExist = errors.New("state file does not exist")

// CorruptError wraps a decode failure on an existing state file,
// keeping it distinguishable from a missing file.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt state file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Load reads the JSON document at path into v.
func Load(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotExist
		}
		return fmt.Errorf("read state file %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &CorruptError{Path: path, Err: err}
	}
	return nil
}

// Save writes v as indented JSON to path atomically.
func Save(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state for %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state file %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace state file %s: %w", path, err)
	}
	return nil
}
