// Package docstore keeps generated documents on disk for later download,
// addressed by opaque tokens and evicted after a TTL.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry describes one stored document.
type Entry struct {
	Path      string
	Filename  string
	CreatedAt time.Time
}

// Store is a thread-safe token-to-file registry with TTL eviction.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	dir     string
	ttl     time.Duration
}

// New creates a store writing files under dir. An empty dir defaults to a
// subdirectory of the system temp dir.
func New(dir string, ttl time.Duration) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "chemscribe-docs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create doc dir: %w", err)
	}
	return &Store{
		entries: make(map[string]Entry),
		dir:     dir,
		ttl:     ttl,
	}, nil
}

// Put writes content to disk under a fresh token and returns the token and
// the display filename. A filename without an extension gets .docx.
func (s *Store) Put(filename string, content []byte) (string, string, error) {
	if filepath.Ext(filename) == "" {
		filename += ".docx"
	}
	token := NewToken()
	path := filepath.Join(s.dir, token+"_"+filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", "", fmt.Errorf("write document: %w", err)
	}

	s.mu.Lock()
	s.entries[token] = Entry{
		Path:      path,
		Filename:  filename,
		CreatedAt: time.Now(),
	}
	s.mu.Unlock()

	return token, filename, nil
}

// Get looks up a stored document. A registered entry whose file has since
// vanished is dropped and reported as missing.
func (s *Store) Get(token string) (Entry, bool) {
	s.mu.Lock()
	entry, ok := s.entries[token]
	s.mu.Unlock()
	if !ok {
		return Entry{}, false
	}
	if _, err := os.Stat(entry.Path); err != nil {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return Entry{}, false
	}
	return entry, true
}

// Cleanup removes expired entries and their files.
func (s *Store) Cleanup() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.entries {
		if now.Sub(entry.CreatedAt) > s.ttl {
			os.Remove(entry.Path)
			delete(s.entries, token)
		}
	}
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
