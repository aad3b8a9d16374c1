package sentstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the ordered list of already-delivered movie ids as a
// human-readable JSON array. It is the only durable state between runs.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted id list. A missing file yields an empty
// list; malformed content is an error.
func (s *Store) Load() ([]int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to read sent file: %w", err)
	}

	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("sent file is corrupt: %w", err)
	}
	return ids, nil
}

// Save replaces the persisted list with ids. The write goes to a
// temporary file first and is renamed into place, so a crash cannot
// leave a truncated file behind.
func (s *Store) Save(ids []int) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sent ids: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sent file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace sent file: %w", err)
	}
	return nil
}
