// Package session provides the terminal's session-scoped key/value storage.
// Values survive soft UI re-renders within one session but are expected to be
// discarded when the hosting view is entered via a hard reload.
package session

import "sync"

// EntryKind describes how the current terminal view was entered. The hosting
// shell knows whether this is a fresh (re)load or an in-app transition and
// passes that fact down at construction time.
type EntryKind int

const (
	// EntrySoft is an in-app transition; persisted session state is kept.
	EntrySoft EntryKind = iota
	// EntryReload is a hard reload; selection state must not survive it.
	EntryReload
)

func (k EntryKind) String() string {
	if k == EntryReload {
		return "reload"
	}
	return "soft"
}

// Store is a session-scoped key/value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryStore is the in-process Store implementation. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
