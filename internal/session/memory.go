package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store backed by a map and a read-write
// mutex. Sessions are deep-copied on the way in and out so callers
// never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Put implements Store.
func (m *MemoryStore) Put(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if stored, ok := m.sessions[s.ID]; ok && stored.Version != s.Version {
		return NewError(KindConflict,
			"session %q version %d does not match stored version %d",
			s.ID, s.Version, stored.Version)
	}

	s.Version++
	m.sessions[s.ID] = s.Clone()
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = nil
	return nil
}
