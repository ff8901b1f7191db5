package trace

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory trace store for tests and development.
type MemoryStore struct {
	mu     sync.RWMutex
	traces map[string]*Trace
	order  []string // insertion order, oldest first
	limit  int
}

// NewMemoryStore creates an in-memory store keeping at most 1000 traces;
// older traces are evicted first.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		traces: make(map[string]*Trace),
		limit:  1000,
	}
}

// Put stores a trace, evicting the oldest when the store is full.
func (s *MemoryStore) Put(ctx context.Context, tr *Trace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.traces[tr.ID]; !exists {
		s.order = append(s.order, tr.ID)
	}
	s.traces[tr.ID] = tr

	for len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.traces, oldest)
	}
	return nil
}

// Get retrieves a trace by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tr, ok := s.traces[id]
	if !ok {
		return nil, ErrNotFound
	}
	return tr, nil
}

// List returns up to limit traces, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Trace, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.traces[s.order[i]])
	}
	return out, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
