package proposal

import (
	"context"
	"sync"

	"council/pkg/domain"
	"council/pkg/platform/sentinel"
)

// InMemory keeps proposals in a map with a separate insertion-order slice.
type InMemory struct {
	mu        sync.RWMutex
	proposals map[domain.ProposalID]*Proposal
	order     []domain.ProposalID
}

func NewInMemory() *InMemory {
	return &InMemory{proposals: make(map[domain.ProposalID]*Proposal)}
}

func (s *InMemory) Create(_ context.Context, p *Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proposals[p.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	clone := *p
	s.proposals[p.ID] = &clone
	s.order = append(s.order, p.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.ProposalID) (*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *InMemory) List(_ context.Context) ([]*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Proposal, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.proposals[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.proposals), nil
}

func (s *InMemory) Execute(_ context.Context, id domain.ProposalID, validate func(*Proposal) error, mutate func(*Proposal)) (*Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	mutate(p)
	clone := *p
	return &clone, nil
}
