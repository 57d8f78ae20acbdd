package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by finders when no record matches.
var ErrNotFound = errors.New("record not found")

// Store persists one ordered collection as a pretty-printed UTF-8 JSON file.
// The file is the unit of persistence: Load returns the whole collection and
// Save rewrites it completely. Correct only under a single writer at a time.
type Store[T any] struct {
	path string
}

// NewStore binds a store to its backing file. The file is created lazily on
// first Load or Save.
func NewStore[T any](path string) *Store[T] {
	return &Store[T]{path: path}
}

// Load reads the collection. A missing file is not an error: an empty
// collection is initialized and returned. Unparsable content is
// reinitialized to empty rather than surfaced, so a hand-edited file that
// went bad never wedges the workflows.
func (s *Store[T]) Load() ([]T, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := s.Save(nil); err != nil {
				return nil, err
			}
			return []T{}, nil
		}
		return nil, fmt.Errorf("read collection %s: %w", s.path, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		if err := s.Save(nil); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save rewrites the whole collection. The write goes through a temp file and
// rename so a crash mid-write never leaves a truncated collection behind.
func (s *Store[T]) Save(records []T) error {
	if records == nil {
		records = []T{}
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode collection %s: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prepare collection directory %s: %w", s.path, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write collection %s: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace collection %s: %w", s.path, err)
	}
	return nil
}

// Path exposes the backing file location.
func (s *Store[T]) Path() string {
	return s.path
}
