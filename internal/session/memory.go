package session

import (
	"bytes"
	"context"
	"sync"
)

type memoryEntry struct {
	mu  sync.Mutex
	bag Bag
}

// MemoryStore is the volatile backend. Each conversation has its own entry
// and lock, so conversations never contend with each other.
type MemoryStore struct {
	entries sync.Map // int64 -> *memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) entry(chatID int64) *memoryEntry {
	e, _ := s.entries.LoadOrStore(chatID, &memoryEntry{bag: Bag{}})
	return e.(*memoryEntry)
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (Bag, error) {
	e := s.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(Bag, len(e.bag))
	for k, v := range e.bag {
		out[k] = bytes.Clone(v)
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, chatID int64, patch Bag) error {
	e := s.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	merge(e.bag, patch)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, chatID int64) error {
	s.entries.Delete(chatID)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Name() string { return "memory" }
