// Package cache persists the last successful snapshot on disk.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adamancini/badlock/internal/aggregate"
)

const snapshotFile = "snapshot.json"

// FileStore stores a single snapshot as JSON.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ aggregate.Store = (*FileStore)(nil)

// NewFileStore creates a store in the default cache directory.
func NewFileStore() (*FileStore, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// NewFileStoreWithDir creates a store in a custom directory.
func NewFileStoreWithDir(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultDir returns the default cache directory path.
func DefaultDir() (string, error) {
	// Use XDG_CACHE_HOME or default to ~/.cache
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "badlock"), nil
}

// Dir returns the cache directory path.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, snapshotFile)
}

// Save replaces the stored snapshot. The file is written to a temporary
// name first so readers never see a partial snapshot.
func (s *FileStore) Save(snap *aggregate.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, snapshotFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. It returns aggregate.ErrNoSnapshot when
// there is none.
func (s *FileStore) Load() (*aggregate.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, aggregate.ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap aggregate.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}

// LastRefresh returns when the stored snapshot was taken, or the zero time
// when there is none.
func (s *FileStore) LastRefresh() (time.Time, error) {
	snap, err := s.Load()
	if err != nil {
		if errors.Is(err, aggregate.ErrNoSnapshot) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return snap.SavedAt, nil
}

// Clear removes the stored snapshot. Clearing an empty cache is not an
// error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
