package memory

import (
	"context"
	"sync"

	"games_library/internal/storage"
)

// Storage keeps blobs in process memory. A positive quota caps the summed
// size of keys and values, the way browser local storage does.
type Storage struct {
	mu     sync.RWMutex
	items  map[string][]byte
	quota  int
	closed bool
}

func New(quota int) *Storage {
	return &Storage{
		items: make(map[string][]byte),
		quota: quota,
	}
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	v, ok := s.items[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return clone(v), nil
}

func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	if s.quota > 0 {
		used := s.usedLocked() - s.sizeLocked(key) + len(key) + len(value)
		if used > s.quota {
			return storage.ErrQuotaExceeded
		}
	}

	s.items[key] = clone(value)
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	delete(s.items, key)
	return nil
}

func (s *Storage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	s.items = make(map[string][]byte)
	return nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Keys lists the stored keys in no particular order.
func (s *Storage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

func (s *Storage) usedLocked() int {
	n := 0
	for k, v := range s.items {
		n += len(k) + len(v)
	}
	return n
}

func (s *Storage) sizeLocked(key string) int {
	v, ok := s.items[key]
	if !ok {
		return 0
	}
	return len(key) + len(v)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
