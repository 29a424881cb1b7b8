package audit

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"

	"council/pkg/domain"
)

type AuditStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestAuditStoreSuite(t *testing.T) {
	suite.Run(t, new(AuditStoreSuite))
}

func (s *AuditStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *AuditStoreSuite) appendEntries(n int) []Entry {
	recorder := NewRecorder()
	entries := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		entry, err := recorder.Record(s.ctx, ActionVoteCast, domain.Actor("actor-"+strconv.Itoa(i)), nil)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Append(s.ctx, entry))
		entries = append(entries, entry)
	}
	return entries
}

func (s *AuditStoreSuite) TestInsertionOrderPreserved() {
	entries := s.appendEntries(5)

	listed, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 5)
	for i, entry := range entries {
		s.Equal(entry.ID, listed[i].ID)
	}
}

func (s *AuditStoreSuite) TestListRecentNewestFirst() {
	entries := s.appendEntries(5)

	recent, err := s.store.ListRecent(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(entries[4].ID, recent[0].ID)
	s.Equal(entries[3].ID, recent[1].ID)
}

func (s *AuditStoreSuite) TestAppendIdempotentOnID() {
	entries := s.appendEntries(1)

	// Redelivery of the same entry must not grow the log.
	s.Require().NoError(s.store.Append(s.ctx, entries[0]))

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *AuditStoreSuite) TestCount() {
	s.appendEntries(3)
	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, count)
}
