package archive

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps turn records in memory. Used when no database path is
// configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int64
	records []*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.ID = s.nextID
	s.nextID++

	stored := *rec
	s.records = append(s.records, &stored)

	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Record, len(s.records))
	for i, r := range s.records {
		c := *r
		out[i] = &c
	}

	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
