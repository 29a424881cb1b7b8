package audit

import (
	"context"
	"sync"

	"council/pkg/domain"
)

// InMemoryStore keeps the audit log in a slice, insertion order preserved.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	seen    map[domain.EntryID]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{seen: make(map[domain.EntryID]struct{})}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[entry.ID]; ok {
		return nil
	}
	s.seen[entry.ID] = struct{}{}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry{}, s.entries...), nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
