package proposal

import (
	"context"

	"council/pkg/domain"
)

// Store persists the proposal collection, insertion order preserved. No
// delete operation exists; status changes go through Execute so validation
// and mutation happen under the same lock.
type Store interface {
	Create(ctx context.Context, p *Proposal) error
	FindByID(ctx context.Context, id domain.ProposalID) (*Proposal, error)
	// List returns proposals in insertion order. Caller-facing orderings
	// are a projection concern and live in the service.
	List(ctx context.Context) ([]*Proposal, error)
	Count(ctx context.Context) (int, error)
	// Execute atomically validates and mutates one proposal. The store holds
	// its lock (mutex or FOR UPDATE) across both callbacks.
	Execute(ctx context.Context, id domain.ProposalID, validate func(*Proposal) error, mutate func(*Proposal)) (*Proposal, error)
}
