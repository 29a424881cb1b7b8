package proposal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
)

func TestNewProposalValidation(t *testing.T) {
	now := time.Now()

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewProposal(domain.NewProposalID(), "", "desc", "alice", now, nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects whitespace-only title", func(t *testing.T) {
		_, err := NewProposal(domain.NewProposalID(), "   ", "desc", "alice", now, nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty description", func(t *testing.T) {
		_, err := NewProposal(domain.NewProposalID(), "title", " \t ", "alice", now, nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty author", func(t *testing.T) {
		_, err := NewProposal(domain.NewProposalID(), "title", "desc", "  ", now, nil, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("trims fields and starts pending", func(t *testing.T) {
		p, err := NewProposal(domain.NewProposalID(), "  Fund node upgrades  ", " Raise the budget. ", " alice ", now, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Fund node upgrades", p.Title)
		assert.Equal(t, "Raise the budget.", p.Description)
		assert.Equal(t, domain.Actor("alice"), p.Author)
		assert.Equal(t, StatusPending, p.Status)
		assert.Equal(t, now, p.CreatedAt)
	})
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusActive, StatusApproved, true},
		{StatusActive, StatusRejected, true},
		{StatusActive, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusActive, false},
		{StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			err := tc.from.CanTransitionTo(tc.to)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "active", "approved", "rejected"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("archived")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestStatusIsOpen(t *testing.T) {
	assert.True(t, StatusPending.IsOpen())
	assert.True(t, StatusActive.IsOpen())
	assert.False(t, StatusApproved.IsOpen())
	assert.False(t, StatusRejected.IsOpen())
}
