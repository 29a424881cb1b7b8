package http

import (
	"strings"
	"time"

	"council/internal/proposal"
)

type billRefPayload struct {
	Congress int    `json:"congress"`
	Type     string `json:"type"`
	Number   int    `json:"number"`
}

func (b *billRefPayload) toModel() *proposal.BillRef {
	if b == nil {
		return nil
	}
	return &proposal.BillRef{
		Congress: b.Congress,
		Type:     strings.ToLower(strings.TrimSpace(b.Type)),
		Number:   b.Number,
	}
}

type submitProposalRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	VotingEndsAt *time.Time      `json:"voting_ends_at,omitempty"`
	Bill         *billRefPayload `json:"bill,omitempty"`
}

type castVoteRequest struct {
	Choice string `json:"choice"`
}

type transitionProposalRequest struct {
	Status string `json:"status"`
}
