package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emilianobruni/erflow/internal/config"
)

// FileStore implements KeyValueStore with one file per key in the data directory.
type FileStore struct {
	paths *config.Paths
}

// NewFileStore creates a new file-backed store.
func NewFileStore(paths *config.Paths) *FileStore {
	return &FileStore{paths: paths}
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string {
	return s.paths.DataDir()
}

// Get reads the value stored under key.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.paths.KeyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value under key. The write goes to a temp file that is renamed
// into place, so readers (and the file watcher) never see a partial value.
func (s *FileStore) Set(key, value string) error {
	dir := s.paths.DataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := os.Rename(tmpPath, s.paths.KeyPath(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes the file for key.
func (s *FileStore) Remove(key string) error {
	if err := os.Remove(s.paths.KeyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// IsKeyFile reports whether path names one of the fixed key files in dir.
func IsKeyFile(dir, path string) (string, bool) {
	if filepath.Dir(path) != filepath.Clean(dir) {
		return "", false
	}
	switch base := filepath.Base(path); base {
	case KeyCards, KeyDarkMode:
		return base, true
	}
	return "", false
}
