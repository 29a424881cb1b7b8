package vote

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"council/pkg/domain"
	"council/pkg/platform/sentinel"
)

type VoteStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestVoteStoreSuite(t *testing.T) {
	suite.Run(t, new(VoteStoreSuite))
}

func (s *VoteStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newVote(proposalID domain.ProposalID, voter domain.Actor, choice Choice) Vote {
	return Vote{ProposalID: proposalID, Voter: voter, Choice: choice, Timestamp: time.Now()}
}

func (s *VoteStoreSuite) TestCastAndDuplicates() {
	proposalID := domain.NewProposalID()

	s.Run("first cast succeeds", func() {
		s.Require().NoError(s.store.CastIfAbsent(s.ctx, newVote(proposalID, "bob", ChoiceApprove)))
	})

	s.Run("second cast by same voter fails regardless of choice", func() {
		err := s.store.CastIfAbsent(s.ctx, newVote(proposalID, "bob", ChoiceReject))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("ledger unchanged after rejected duplicate", func() {
		tally, err := s.store.TallyFor(s.ctx, proposalID)
		s.Require().NoError(err)
		s.Equal(Tally{Approve: 1, Total: 1}, tally)
	})

	s.Run("same voter may vote on a different proposal", func() {
		s.Require().NoError(s.store.CastIfAbsent(s.ctx, newVote(domain.NewProposalID(), "bob", ChoiceApprove)))
	})

	s.Run("different voter may vote on the same proposal", func() {
		s.Require().NoError(s.store.CastIfAbsent(s.ctx, newVote(proposalID, "carol", ChoiceAbstain)))
	})
}

func (s *VoteStoreSuite) TestHasVoted() {
	proposalID := domain.NewProposalID()

	voted, err := s.store.HasVoted(s.ctx, proposalID, "bob")
	s.Require().NoError(err)
	s.False(voted)

	s.Require().NoError(s.store.CastIfAbsent(s.ctx, newVote(proposalID, "bob", ChoiceApprove)))

	voted, err = s.store.HasVoted(s.ctx, proposalID, "bob")
	s.Require().NoError(err)
	s.True(voted)
}

func (s *VoteStoreSuite) TestListForOrderedByTimestamp() {
	proposalID := domain.NewProposalID()
	base := time.Now()
	for i, voter := range []domain.Actor{"a", "b", "c"} {
		v := Vote{ProposalID: proposalID, Voter: voter, Choice: ChoiceApprove, Timestamp: base.Add(time.Duration(i) * time.Second)}
		s.Require().NoError(s.store.CastIfAbsent(s.ctx, v))
	}

	votes, err := s.store.ListFor(s.ctx, proposalID)
	s.Require().NoError(err)
	s.Require().Len(votes, 3)
	s.True(votes[0].Timestamp.Before(votes[1].Timestamp))
	s.True(votes[1].Timestamp.Before(votes[2].Timestamp))
}

// TestConcurrentDuplicateCasts hammers CastIfAbsent with the same
// (proposal, voter) pair from many goroutines: exactly one may win.
func (s *VoteStoreSuite) TestConcurrentDuplicateCasts() {
	proposalID := domain.NewProposalID()
	const goroutines = 50

	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.CastIfAbsent(s.ctx, newVote(proposalID, "bob", ChoiceApprove)); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())

	tally, err := s.store.TallyFor(s.ctx, proposalID)
	s.Require().NoError(err)
	s.Equal(1, tally.Total)
}

func (s *VoteStoreSuite) TestCountSpansProposals() {
	first := domain.NewProposalID()
	second := domain.NewProposalID()
	s.Require().NoError(s.store.CastIfAbsent(s.ctx, newVote(first, "bob", ChoiceApprove)))
	s.Require().NoError(s.store.CastIfAbsent(s.ctx, newVote(second, "bob", ChoiceReject)))
	s.Require().NoError(s.store.CastIfAbsent(s.ctx, newVote(second, "carol", ChoiceAbstain)))

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}
