package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about records, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrAlreadyUsed: insert would violate a uniqueness invariant, e.g. a
//   second vote for the same (proposal, voter) pair
// - ErrInvalidState: record in wrong state for the requested mutation, e.g.
//   an illegal proposal status transition
// - ErrUnavailable: backend temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
