// Package domain holds shared domain primitives: typed identifiers parsed
// and validated at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "council/pkg/domain-errors"
)

// ProposalID identifies a governance proposal. Assigned at creation, never
// reused.
type ProposalID uuid.UUID

// EntryID identifies an audit log entry.
type EntryID uuid.UUID

// NewProposalID returns a fresh proposal identifier.
func NewProposalID() ProposalID { return ProposalID(uuid.New()) }

// NewEntryID returns a fresh audit entry identifier.
func NewEntryID() EntryID { return EntryID(uuid.New()) }

// ParseProposalID validates and returns a ProposalID. Empty strings, nil
// UUIDs and malformed input are rejected with CodeInvalidInput.
func ParseProposalID(s string) (ProposalID, error) {
	u, err := parseUUID(s, "proposal id")
	return ProposalID(u), err
}

// ParseEntryID validates and returns an EntryID.
func ParseEntryID(s string) (EntryID, error) {
	u, err := parseUUID(s, "entry id")
	return EntryID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", label)
	}
	return u, nil
}

func (p ProposalID) String() string { return uuid.UUID(p).String() }
func (p ProposalID) IsNil() bool    { return uuid.UUID(p) == uuid.Nil }

// MarshalText renders the id in canonical UUID form so encoders that honor
// encoding.TextMarshaler (JSON included) emit a string, not a byte array.
func (p ProposalID) MarshalText() ([]byte, error) { return uuid.UUID(p).MarshalText() }

// UnmarshalText parses a canonical UUID string.
func (p *ProposalID) UnmarshalText(text []byte) error {
	id, err := ParseProposalID(string(text))
	if err != nil {
		return err
	}
	*p = id
	return nil
}

func (e EntryID) String() string { return uuid.UUID(e).String() }
func (e EntryID) IsNil() bool    { return uuid.UUID(e) == uuid.Nil }

// MarshalText renders the id in canonical UUID form.
func (e EntryID) MarshalText() ([]byte, error) { return uuid.UUID(e).MarshalText() }

// UnmarshalText parses a canonical UUID string.
func (e *EntryID) UnmarshalText(text []byte) error {
	id, err := ParseEntryID(string(text))
	if err != nil {
		return err
	}
	*e = id
	return nil
}

// Actor is the opaque, pre-authenticated identifier of the entity performing
// an action. The core performs no authentication; the value comes from the
// identity source at the transport boundary.
type Actor string

func (a Actor) String() string { return string(a) }
