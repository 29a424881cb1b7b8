package http

import (
	"council/internal/audit"
	"council/internal/enrichment"
	"council/internal/proposal"
	"council/internal/vote"
)

type proposalResponse struct {
	*proposal.Proposal
}

type proposalListItem struct {
	*proposal.Proposal
	BillMetadata *enrichment.BillMetadata `json:"bill_metadata,omitempty"`
}

type proposalListResponse struct {
	Proposals []proposalListItem `json:"proposals"`
}

type proposalDetailResponse struct {
	Proposal *proposal.Proposal       `json:"proposal"`
	Tally    vote.Tally               `json:"tally"`
	Bill     *enrichment.BillMetadata `json:"bill,omitempty"`
}

type voteListResponse struct {
	Votes []vote.Vote `json:"votes"`
}

type auditListResponse struct {
	Entries []audit.Entry `json:"entries"`
}
