package vote

import (
	"time"

	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
)

// Choice is a voter's stance on a proposal.
type Choice string

const (
	ChoiceApprove Choice = "approve"
	ChoiceReject  Choice = "reject"
	ChoiceAbstain Choice = "abstain"
)

// ParseChoice validates a choice string at a trust boundary.
func ParseChoice(s string) (Choice, error) {
	switch Choice(s) {
	case ChoiceApprove, ChoiceReject, ChoiceAbstain:
		return Choice(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown vote choice %q", s)
}

// Vote is one actor's stance on one proposal. Append-only: no overwrite, no
// delete. At most one vote may ever exist per (ProposalID, Voter) pair.
type Vote struct {
	ProposalID domain.ProposalID `json:"proposal_id"`
	Voter      domain.Actor      `json:"voter"`
	Choice     Choice            `json:"choice"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Tally aggregates votes for one proposal. Every vote carries exactly one
// choice, so the three counts partition the set and sum to Total.
type Tally struct {
	Approve int `json:"approve"`
	Reject  int `json:"reject"`
	Abstain int `json:"abstain"`
	Total   int `json:"total"`
}

func (t *Tally) add(c Choice) {
	switch c {
	case ChoiceApprove:
		t.Approve++
	case ChoiceReject:
		t.Reject++
	case ChoiceAbstain:
		t.Abstain++
	}
	t.Total++
}
