package proposal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"council/pkg/domain"
	"council/pkg/platform/sentinel"
)

type ProposalStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestProposalStoreSuite(t *testing.T) {
	suite.Run(t, new(ProposalStoreSuite))
}

func (s *ProposalStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *ProposalStoreSuite) newProposal(title string) *Proposal {
	p, err := NewProposal(domain.NewProposalID(), title, "description", "alice", time.Now(), nil, nil)
	s.Require().NoError(err)
	return p
}

func (s *ProposalStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds proposal by ID", func() {
		p := s.newProposal("Fund node upgrades")
		s.Require().NoError(s.store.Create(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.Title, found.Title)
		s.Equal(StatusPending, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewProposalID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate ID", func() {
		p := s.newProposal("Duplicate")
		s.Require().NoError(s.store.Create(s.ctx, p))
		s.Require().ErrorIs(s.store.Create(s.ctx, p), sentinel.ErrAlreadyUsed)
	})
}

func (s *ProposalStoreSuite) TestListPreservesInsertionOrder() {
	first := s.newProposal("first")
	second := s.newProposal("second")
	third := s.newProposal("third")
	for _, p := range []*Proposal{first, second, third} {
		s.Require().NoError(s.store.Create(s.ctx, p))
	}

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal(first.ID, listed[0].ID)
	s.Equal(second.ID, listed[1].ID)
	s.Equal(third.ID, listed[2].ID)
}

func (s *ProposalStoreSuite) TestReadsReturnCopies() {
	p := s.newProposal("immutable")
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	found.Title = "mutated"

	again, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("immutable", again.Title)
}

func (s *ProposalStoreSuite) TestExecute() {
	s.Run("applies mutation when validation passes", func() {
		p := s.newProposal("transition me")
		s.Require().NoError(s.store.Create(s.ctx, p))

		updated, err := s.store.Execute(s.ctx, p.ID,
			func(cur *Proposal) error { return cur.Status.CanTransitionTo(StatusActive) },
			func(cur *Proposal) { cur.Status = StatusActive },
		)
		s.Require().NoError(err)
		s.Equal(StatusActive, updated.Status)

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(StatusActive, found.Status)
	})

	s.Run("leaves record untouched when validation fails", func() {
		p := s.newProposal("frozen")
		s.Require().NoError(s.store.Create(s.ctx, p))

		_, err := s.store.Execute(s.ctx, p.ID,
			func(cur *Proposal) error { return cur.Status.CanTransitionTo(StatusPending) },
			func(cur *Proposal) { cur.Status = StatusApproved },
		)
		s.Require().Error(err)

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(StatusPending, found.Status)
	})

	s.Run("returns ErrNotFound for unknown proposal", func() {
		_, err := s.store.Execute(s.ctx, domain.NewProposalID(),
			func(*Proposal) error { return nil },
			func(*Proposal) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ProposalStoreSuite) TestCount() {
	s.Require().NoError(s.store.Create(s.ctx, s.newProposal("one")))
	s.Require().NoError(s.store.Create(s.ctx, s.newProposal("two")))

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
