package genre

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored entries in insertion order
func (s *MemoryStore) Load(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries), nil
}

// Replace swaps the stored entries in one step
func (s *MemoryStore) Replace(_ context.Context, entries []Entry) error {
	s.mu.Lock()
	s.entries = slices.Clone(entries)
	s.mu.Unlock()
	return nil
}

// Clear removes every entry
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	return nil
}
