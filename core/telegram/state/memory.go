package state

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewMemoryBackend returns a process-local Backend. States are lost on restart.
func NewMemoryBackend() Backend {
	return &memoryBackend{states: make(map[int64]State)}
}

func (m *memoryBackend) Load(_ context.Context, userID int64) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[userID]
	return st, ok, nil
}

func (m *memoryBackend) Save(_ context.Context, userID int64, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = st
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

func (m *memoryBackend) Take(_ context.Context, userID int64) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[userID]
	if ok {
		delete(m.states, userID)
	}
	return st, ok, nil
}
