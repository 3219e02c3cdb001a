package recordstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps collections for the lifetime of the process only.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Read(_ context.Context, collection string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.data[collection]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Write(_ context.Context, collection string, data []byte) error {
	b.mu.Lock()
	b.data[collection] = append([]byte(nil), data...)
	b.mu.Unlock()
	return nil
}
