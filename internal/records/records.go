// Package records persists the last-drafted title per category in a small
// JSON file, so repeated runs can skip recently covered titles.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"reelbuzz/internal/core"
	"reelbuzz/internal/logger"
)

// Store reads and writes the draft record file. Writes go through a temp
// file and rename so a crashed run never leaves a half-written file.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the last draft record for the category, or nil when no
// record exists. A corrupt or unreadable file is logged and treated the
// same as no record; duplicate guarding degrades rather than the run
// failing.
func (s *Store) Get(category core.Category) *core.DraftRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	record, ok := data[category]
	if !ok {
		return nil
	}
	return &record
}

// Put replaces the record for one category, preserving the others.
func (s *Store) Put(category core.Category, record core.DraftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.load()
	data[category] = record

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding draft records: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".records-*.json")
	if err != nil {
		return fmt.Errorf("creating temp record file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing draft records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp record file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing record file: %w", err)
	}
	return nil
}

// load reads the current file, returning an empty map for a missing or
// unreadable file.
func (s *Store) load() map[core.Category]core.DraftRecord {
	data := make(map[core.Category]core.DraftRecord)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Record file unreadable, treating as empty",
				"path", s.path, "error", err.Error())
		}
		return data
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		logger.Warn("Record file corrupt, treating as empty",
			"path", s.path, "error", err.Error())
		return make(map[core.Category]core.DraftRecord)
	}
	return data
}
