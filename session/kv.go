package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by [KV.Get] when the key has no value.
var ErrNotFound = errors.New("session kv: key not found")

// KV is the durable backend behind [Store]. Put replaces all given entries
// in one atomic step where the backend allows it; [MemoryKV], [FileKV], and
// [RedisKV] all provide that guarantee.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryKV is an in-process [KV] with no durability. It is the default
// backend and the one used throughout the test suite.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryKV creates an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string][]byte)}
}

// Get returns the stored value or [ErrNotFound].
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Put stores all entries under one lock acquisition.
func (m *MemoryKV) Put(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range entries {
		m.entries[key] = append([]byte(nil), value...)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (m *MemoryKV) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}
