package vote

import (
	"context"

	"council/pkg/domain"
)

// Store is the vote ledger. CastIfAbsent is the core invariant: the
// duplicate check and the insert execute atomically, so no read-then-write
// race can ever admit a second vote for the same (proposal, voter) pair.
type Store interface {
	// CastIfAbsent appends the vote unless one already exists for its
	// (ProposalID, Voter) pair, in which case it returns
	// sentinel.ErrAlreadyUsed and leaves the ledger unchanged.
	CastIfAbsent(ctx context.Context, v Vote) error
	HasVoted(ctx context.Context, proposalID domain.ProposalID, voter domain.Actor) (bool, error)
	// ListFor returns the proposal's votes ordered by timestamp ascending.
	ListFor(ctx context.Context, proposalID domain.ProposalID) ([]Vote, error)
	TallyFor(ctx context.Context, proposalID domain.ProposalID) (Tally, error)
	Count(ctx context.Context) (int, error)
}
