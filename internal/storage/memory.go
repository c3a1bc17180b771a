package storage

import (
	"context"
	"sync"
)

// MemoryBackend is a process-local store shared by every origin created from it.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend returns an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

// Origin returns a Storage view scoped to origin.
func (b *MemoryBackend) Origin(origin string) Storage {
	return &memoryStore{backend: b, origin: origin}
}

// NewMemory returns a standalone in-memory store.
func NewMemory(origin string) Storage {
	return NewMemoryBackend().Origin(origin)
}

type memoryStore struct {
	backend *MemoryBackend
	origin  string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	v, ok := s.backend.values[scopedKey(s.origin, key)]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.values[scopedKey(s.origin, key)] = value
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.values, scopedKey(s.origin, key))
	return nil
}
