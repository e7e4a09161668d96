package ezstorage

import (
	"context"
	"sync"
	"sync/atomic"
)

// Memory implements Driver with thread-safe in-process storage.
// It serves as the default session tier and as a durable tier in tests.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	disabled atomic.Bool
}

// NewMemory creates an empty in-memory Driver.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Available reports false after SetAvailable(false).
func (m *Memory) Available(ctx context.Context) bool {
	return !m.disabled.Load()
}

// SetAvailable toggles whether the driver reports itself usable. Stored data
// is kept either way.
func (m *Memory) SetAvailable(ok bool) {
	m.disabled.Store(!ok)
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Clear drops every key. For a session tier this models the end of the
// session.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return nil
}
