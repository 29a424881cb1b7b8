package audit

import (
	"time"

	"council/pkg/domain"
)

// Action is the verb/category of an audit entry.
type Action string

const (
	ActionProposalSubmitted     Action = "proposal_submitted"
	ActionVoteCast              Action = "vote_cast"
	ActionProposalStatusChanged Action = "proposal_status_changed"
)

// Entry is an immutable record of a single governance action. Entries are
// append-only; the log's insertion order is the authoritative ordering of
// events. Details reference proposals or votes by id but carry no enforced
// foreign key: the log is a denormalized narrative, not a join target.
type Entry struct {
	ID        domain.EntryID    `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Action    Action            `json:"action"`
	Actor     domain.Actor      `json:"actor"`
	Details   map[string]string `json:"details,omitempty"`
}
