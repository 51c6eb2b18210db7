package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store is a durable string key-value store.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileStore keeps entries as a JSON object in a single file, created on the
// first write.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Get returns the value for key. A missing file or key is not an error.
func (s *FileStore) Get(key string) (string, bool, error) {
	entries, err := loadEntries(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Set writes key, keeping every other entry.
func (s *FileStore) Set(key, value string) error {
	if s.path == "" {
		return errors.New("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	entries, err := loadEntries(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		entries = map[string]string{}
	}
	entries[key] = value
	return writeEntries(s.path, entries)
}

func writeEntries(path string, entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadEntries(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]string{}, nil
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}

// MemoryStore is an in-process Store.
type MemoryStore map[string]string

func (m MemoryStore) Get(key string) (string, bool, error) {
	value, ok := m[key]
	return value, ok, nil
}

func (m MemoryStore) Set(key, value string) error {
	m[key] = value
	return nil
}
