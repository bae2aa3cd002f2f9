package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is a persistent string key-value store.
type Store interface {
	ReadString(key string) (string, error)
	WriteString(key, value string) error
}

// FileStore persists each key as one file under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// ReadString returns the stored value, or "" when the key has never been
// written.
func (s *FileStore) ReadString(key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), nil
}

// WriteString replaces the stored value atomically.
func (s *FileStore) WriteString(key, value string) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Memory is an in-memory Store for tests.
type Memory struct {
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// ReadString returns the stored value, or "" when absent.
func (s *Memory) ReadString(key string) (string, error) {
	return s.values[key], nil
}

// WriteString replaces the stored value.
func (s *Memory) WriteString(key, value string) error {
	s.values[key] = value
	return nil
}
