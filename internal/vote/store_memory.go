package vote

import (
	"context"
	"sync"

	"council/pkg/domain"
	"council/pkg/platform/sentinel"
)

type voteKey struct {
	proposalID domain.ProposalID
	voter      domain.Actor
}

// InMemory keeps votes per proposal with a uniqueness index. The write lock
// is held across the duplicate check and the append, which is what makes
// CastIfAbsent atomic.
type InMemory struct {
	mu    sync.RWMutex
	votes map[domain.ProposalID][]Vote
	cast  map[voteKey]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		votes: make(map[domain.ProposalID][]Vote),
		cast:  make(map[voteKey]struct{}),
	}
}

func (s *InMemory) CastIfAbsent(_ context.Context, v Vote) error {
	key := voteKey{proposalID: v.ProposalID, voter: v.Voter}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cast[key]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.cast[key] = struct{}{}
	s.votes[v.ProposalID] = append(s.votes[v.ProposalID], v)
	return nil
}

func (s *InMemory) HasVoted(_ context.Context, proposalID domain.ProposalID, voter domain.Actor) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cast[voteKey{proposalID: proposalID, voter: voter}]
	return ok, nil
}

func (s *InMemory) ListFor(_ context.Context, proposalID domain.ProposalID) ([]Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Vote{}, s.votes[proposalID]...), nil
}

func (s *InMemory) TallyFor(_ context.Context, proposalID domain.ProposalID) (Tally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var tally Tally
	for _, v := range s.votes[proposalID] {
		tally.add(v.Choice)
	}
	return tally, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cast), nil
}
