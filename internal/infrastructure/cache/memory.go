package cache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local key-value store
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]string),
	}
}

// Set stores a key-value pair
func (ms *MemoryStore) Set(ctx context.Context, key, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = value
	return nil
}

// Get retrieves a value by key
func (ms *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	value, exists := ms.items[key]
	return value, exists, nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
	return nil
}
