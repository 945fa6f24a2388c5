package store

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value     string
	expiresAt time.Time // zero means no store-level TTL
}

// InMemoryStore is a Store implementation backed by a map. The mutex
// serializes the two atomic primitives, which makes it suitable both for
// single-process use and for exercising the coordinator in tests.
type InMemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

// NewInMemoryStore returns a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[string]memoryItem)}
}

// live returns the item for key, dropping it first if its store-level TTL has
// passed. Callers must hold mu.
func (s *InMemoryStore) live(key string) (memoryItem, bool) {
	it, ok := s.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !it.expiresAt.IsZero() && time.Now().After(it.expiresAt) {
		delete(s.items, key)
		return memoryItem{}, false
	}
	return it, true
}

// SetIfAbsent implements Store.SetIfAbsent.
func (s *InMemoryStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.items[key] = memoryItem{value: value}
	return true, nil
}

// Get implements Store.Get.
func (s *InMemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.live(key)
	if !ok {
		return "", false, nil
	}
	return it.value, true, nil
}

// GetAndSet implements Store.GetAndSet.
func (s *InMemoryStore) GetAndSet(ctx context.Context, key, value string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.live(key)
	s.items[key] = memoryItem{value: value}
	if !ok {
		return "", false, nil
	}
	return prev.value, true, nil
}

// Delete implements Store.Delete.
func (s *InMemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// SetExpiry implements Store.SetExpiry.
func (s *InMemoryStore) SetExpiry(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.live(key)
	if !ok {
		return nil
	}
	it.expiresAt = time.Now().Add(ttl)
	s.items[key] = it
	return nil
}
