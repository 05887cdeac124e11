// Package keystore holds the backend API key, persisted to a local file so
// a key survives server restarts.
package keystore

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Store is a thread-safe API key holder with file persistence.
type Store struct {
	mu   sync.Mutex
	key  string
	path string
}

// Open creates a store backed by path and loads any previously saved key.
// A missing or unreadable file means starting with no key.
func Open(path string) *Store {
	s := &Store{path: path}
	if data, err := os.ReadFile(path); err == nil {
		s.key = strings.TrimSpace(string(data))
	}
	return s
}

// Set stores and persists the key. An empty key clears the store and
// removes the file.
func (s *Store) Set(key string) error {
	key = strings.TrimSpace(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.key = key
	if key == "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove key file: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(s.path, []byte(key), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

// Clear removes the key and its file.
func (s *Store) Clear() error {
	return s.Set("")
}

// Get returns the current key, or "" when unset.
func (s *Store) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// IsSet reports whether a key is configured.
func (s *Store) IsSet() bool {
	return s.Get() != ""
}
