package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend is a minimal in-memory Backend implementation intended for
// tests, examples, and single-process embedders. Safe for concurrent use.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]string
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: map[string]string{}}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	value, ok := b.records[key]
	b.mu.RUnlock()
	return value, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	b.records[key] = value
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) SetAsync(ctx context.Context, key, value string, done func(error)) {
	go func() {
		err := b.Set(ctx, key, value)
		if done != nil {
			done(err)
		}
	}()
}

func (b *MemoryBackend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.records, key)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	b.records = map[string]string{}
	b.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

// Keys returns all stored keys sorted alphabetically.
func (b *MemoryBackend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.records))
	for key := range b.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
