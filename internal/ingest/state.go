package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StateStore persists the last fully processed block so interrupted runs can
// resume.
type StateStore interface {
	// Load returns the checkpoint and whether one exists.
	Load(ctx context.Context) (uint64, bool, error)
	// Save records the checkpoint.
	Save(ctx context.Context, block uint64) error
}

type stateRecord struct {
	LastBlock uint64 `json:"last_block"`
}

// FileStateStore keeps the checkpoint in a small JSON file.
type FileStateStore struct {
	path string
}

// NewFileStateStore validates the path and returns the store. The file itself
// may not exist yet.
func NewFileStateStore(path string) (*FileStateStore, error) {
	if path == "" {
		return nil, errors.New("state file path is empty")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("state path %s is a directory", path)
	}
	return &FileStateStore{path: path}, nil
}

func (s *FileStateStore) Load(context.Context) (uint64, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read state file: %w", err)
	}

	var record stateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return 0, false, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	return record.LastBlock, true, nil
}

// Save writes the checkpoint atomically via a temp file rename.
func (s *FileStateStore) Save(_ context.Context, block uint64) error {
	data, err := json.Marshal(stateRecord{LastBlock: block})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
