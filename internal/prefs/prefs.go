// Package prefs is the persistence collaborator: a small versioned
// key-value blob of user preferences, namespaced, loaded at startup
// and written back on every mutation. The only state the core
// persists besides the optional memory snapshot.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Version is bumped when the blob layout changes. Older blobs load
// fine; missing namespaces and keys just fall back to defaults.
const Version = 1

// Store is the on-disk preference store.
// Thread-safety: all methods are safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	blob blob
}

type blob struct {
	Version    int                          `json:"version"`
	Namespaces map[string]map[string]string `json:"namespaces"`
}

// DefaultPath returns ~/.tend/prefs.json.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tend", "prefs.json")
}

// Open loads the store at path, or starts empty if the file is
// missing or unreadable. A corrupt file is not fatal: preferences are
// conveniences, not records.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		blob: blob{Version: Version, Namespaces: make(map[string]map[string]string)},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return s, nil
	}
	if b.Namespaces == nil {
		b.Namespaces = make(map[string]map[string]string)
	}
	b.Version = Version
	s.blob = b
	return s, nil
}

// Get returns the value for key in the namespace, or fallback.
func (s *Store) Get(namespace, key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.blob.Namespaces[namespace]; ok {
		if v, ok := ns[key]; ok {
			return v
		}
	}
	return fallback
}

// Set stores the value and writes the blob back to disk immediately.
func (s *Store) Set(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.blob.Namespaces[namespace]
	if !ok {
		ns = make(map[string]string)
		s.blob.Namespaces[namespace] = ns
	}
	ns[key] = value

	return s.save()
}

// Namespace returns a copy of every key in the namespace.
func (s *Store) Namespace(namespace string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.blob.Namespaces[namespace]))
	for k, v := range s.blob.Namespaces[namespace] {
		out[k] = v
	}
	return out
}

// save writes the blob. Caller must hold s.mu.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create prefs directory: %w", err)
	}

	data, err := json.MarshalIndent(s.blob, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}
