package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process memory, keyed by session id. This is
// the default backend: cart state lives and dies with the session and is
// never persisted anywhere.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]map[int64]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]map[int64]int64),
	}
}

func (s *MemoryStore) Add(_ context.Context, sessionID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.carts[sessionID]
	if !ok {
		entries = make(map[int64]int64)
		s.carts[sessionID] = entries
	}
	entries[productID]++
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sessionID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.carts[sessionID]
	if !ok {
		return nil
	}
	qty, ok := entries[productID]
	if !ok {
		return nil
	}
	if qty <= 1 {
		delete(entries, productID)
	} else {
		entries[productID] = qty - 1
	}
	return nil
}

func (s *MemoryStore) Entries(_ context.Context, sessionID string) (map[int64]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make(map[int64]int64, len(s.carts[sessionID]))
	for id, qty := range s.carts[sessionID] {
		entries[id] = qty
	}
	return entries, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}
