package persist

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot blob in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	data  string
	ok    bool
	saves int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a store preloaded with data.
func NewMemoryStoreWith(data string) *MemoryStore {
	return &MemoryStore{data: data, ok: true}
}

func (s *MemoryStore) Load(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, s.ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, data string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.ok = true
	s.saves++
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ""
	s.ok = false
	return nil
}

// Saves reports how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
