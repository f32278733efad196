// Package store ships KeyValue backends for the session layer: an
// in-process map for tests and ephemeral hosts, and a Bun-backed sqlite
// store for durable sessions.
package store

import (
	"context"
	"sync"

	authclient "github.com/goliatone/go-authclient"
)

// Memory is a thread-safe in-process KeyValue backend.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ authclient.KeyValue = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Read implements authclient.KeyValue.
func (m *Memory) Read(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

// Write implements authclient.KeyValue.
func (m *Memory) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.values, key)
		return nil
	}
	m.values[key] = value
	return nil
}
