package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore constructs an in-memory Store for tests and development.
// State does not survive a restart.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (m *memoryStore) Get(_ context.Context, key Key) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[key.String()]
	return s, ok, nil
}

func (m *memoryStore) Put(_ context.Context, key Key, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[key.String()] = s
	return nil
}
