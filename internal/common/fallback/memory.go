package fallback

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	lists  map[string][][]byte
}

// NewMemoryStore returns an in-process Store. It backs tests and acts as the
// last-resort store when no Redis is configured.
func NewMemoryStore() Store {
	return &memoryStore{
		values: make(map[string][]byte),
		lists:  make(map[string][][]byte),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, true, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.values[key] = cp
	return nil
}

func (s *memoryStore) AppendBounded(_ context.Context, key string, value []byte, capacity int) error {
	if capacity <= 0 {
		capacity = ActivityBufferCapacity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)

	// Newest first, mirroring the Redis LPUSH+LTRIM layout.
	list := append([][]byte{cp}, s.lists[key]...)
	if len(list) > capacity {
		list = list[:capacity]
	}
	s.lists[key] = list
	return nil
}

func (s *memoryStore) List(_ context.Context, key string, limit int) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.lists[key]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	out := make([][]byte, len(list))
	for i, v := range list {
		cp := make([]byte, len(v))
		copy(cp, v)
		out[i] = cp
	}
	return out, nil
}
