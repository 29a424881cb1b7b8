package proposal

import (
	"strings"
	"time"

	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
)

// Status is the proposal lifecycle state.
//
// Invariants:
//   - every proposal starts as pending
//   - transitions happen only through the explicit transition operation
//   - approved and rejected are terminal
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status string at a trust boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusActive, StatusApproved, StatusRejected:
		return Status(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown proposal status %q", s)
}

// IsOpen reports whether the proposal still accepts attention from voters.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusActive
}

var legalTransitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusApproved, StatusRejected},
	StatusActive:  {StatusApproved, StatusRejected},
}

// CanTransitionTo checks the status state machine. Terminal states allow no
// further transitions.
func (s Status) CanTransitionTo(next Status) error {
	for _, allowed := range legalTransitions[s] {
		if next == allowed {
			return nil
		}
	}
	return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot transition proposal from %s to %s", s, next)
}

// BillRef tags a proposal with the congress.gov bill it tracks. Purely
// informational: enrichment reads it, governance never does.
type BillRef struct {
	Congress int    `json:"congress"`
	Type     string `json:"type"`
	Number   int    `json:"number"`
}

// Proposal is a governance proposal. Created by submit, never deleted;
// everything except Status is immutable after construction.
type Proposal struct {
	ID           domain.ProposalID `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Author       domain.Actor      `json:"author"`
	Status       Status            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	VotingEndsAt *time.Time        `json:"voting_ends_at,omitempty"`
	Bill         *BillRef          `json:"bill,omitempty"`
}

// NewProposal validates inputs and constructs a pending proposal.
// Title, description, and author must be non-empty after trimming.
func NewProposal(id domain.ProposalID, title, description string, author domain.Actor, now time.Time, votingEndsAt *time.Time, bill *BillRef) (*Proposal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "proposal title is required")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "proposal description is required")
	}
	author = domain.Actor(strings.TrimSpace(string(author)))
	if author == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "proposal author is required")
	}
	return &Proposal{
		ID:           id,
		Title:        title,
		Description:  description,
		Author:       author,
		Status:       StatusPending,
		CreatedAt:    now,
		VotingEndsAt: votingEndsAt,
		Bill:         bill,
	}, nil
}
