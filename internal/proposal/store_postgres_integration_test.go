//go:build integration

package proposal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"council/internal/proposal"
	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
	"council/pkg/platform/sentinel"
	"council/pkg/testutil/containers"
)

type PostgresProposalStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *proposal.Postgres
}

func TestPostgresProposalStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresProposalStoreSuite))
}

func (s *PostgresProposalStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = proposal.NewPostgres(s.postgres.DB)
}

func (s *PostgresProposalStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "votes", "audit_entries", "proposals")
	s.Require().NoError(err)
}

func (s *PostgresProposalStoreSuite) newProposal(title string) *proposal.Proposal {
	p, err := proposal.NewProposal(domain.NewProposalID(), title, "description", "alice", time.Now().UTC().Truncate(time.Microsecond), nil, nil)
	s.Require().NoError(err)
	return p
}

func (s *PostgresProposalStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	ends := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Microsecond)
	p, err := proposal.NewProposal(domain.NewProposalID(), "Budget 2026", "description", "alice",
		time.Now().UTC().Truncate(time.Microsecond), &ends, &proposal.BillRef{Congress: 118, Type: "hr", Number: 42})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(ctx, p))

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Title, found.Title)
	s.Equal(proposal.StatusPending, found.Status)
	s.Require().NotNil(found.VotingEndsAt)
	s.True(ends.Equal(*found.VotingEndsAt))
	s.Require().NotNil(found.Bill)
	s.Equal(*p.Bill, *found.Bill)

	s.Run("duplicate id conflicts", func() {
		err := s.store.Create(ctx, p)
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("unknown id", func() {
		_, err := s.store.FindByID(ctx, domain.NewProposalID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresProposalStoreSuite) TestListPreservesInsertionOrder() {
	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		s.Require().NoError(s.store.Create(ctx, s.newProposal(title)))
	}

	got, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("first", got[0].Title)
	s.Equal("third", got[2].Title)

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *PostgresProposalStoreSuite) TestExecuteTransition() {
	ctx := context.Background()
	p := s.newProposal("Budget 2026")
	s.Require().NoError(s.store.Create(ctx, p))

	s.Run("legal transition persists", func() {
		updated, err := s.store.Execute(ctx, p.ID,
			func(cur *proposal.Proposal) error { return cur.Status.CanTransitionTo(proposal.StatusActive) },
			func(cur *proposal.Proposal) { cur.Status = proposal.StatusActive },
		)
		s.Require().NoError(err)
		s.Equal(proposal.StatusActive, updated.Status)

		found, err := s.store.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(proposal.StatusActive, found.Status)
	})

	s.Run("validation failure leaves the row unchanged", func() {
		_, err := s.store.Execute(ctx, p.ID,
			func(cur *proposal.Proposal) error { return cur.Status.CanTransitionTo(proposal.StatusPending) },
			func(cur *proposal.Proposal) { cur.Status = proposal.StatusPending },
		)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		found, err := s.store.FindByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(proposal.StatusActive, found.Status)
	})

	s.Run("unknown proposal", func() {
		_, err := s.store.Execute(ctx, domain.NewProposalID(),
			func(*proposal.Proposal) error { return nil },
			func(*proposal.Proposal) {},
		)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
