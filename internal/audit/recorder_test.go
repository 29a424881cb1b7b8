package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "council/pkg/domain-errors"
	"council/pkg/requestcontext"
)

func TestRecorderValidation(t *testing.T) {
	recorder := NewRecorder()
	ctx := context.Background()

	t.Run("rejects empty action", func(t *testing.T) {
		_, err := recorder.Record(ctx, "", "alice", nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects whitespace-only action", func(t *testing.T) {
		_, err := recorder.Record(ctx, "   ", "alice", nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty actor", func(t *testing.T) {
		_, err := recorder.Record(ctx, ActionVoteCast, "  ", nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("trims action and actor", func(t *testing.T) {
		entry, err := recorder.Record(ctx, " vote_cast ", " bob ", nil)
		require.NoError(t, err)
		assert.Equal(t, ActionVoteCast, entry.Action)
		assert.Equal(t, "bob", string(entry.Actor))
	})
}

func TestRecorderUsesRequestClock(t *testing.T) {
	recorder := NewRecorder()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), fixed)

	entry, err := recorder.Record(ctx, ActionProposalSubmitted, "alice", map[string]string{"proposal_id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, fixed, entry.Timestamp)
	assert.False(t, entry.ID.IsNil())
}

func TestRecorderCopiesDetails(t *testing.T) {
	recorder := NewRecorder()
	details := map[string]string{"choice": "approve"}

	entry, err := recorder.Record(context.Background(), ActionVoteCast, "bob", details)
	require.NoError(t, err)

	details["choice"] = "reject"
	assert.Equal(t, "approve", entry.Details["choice"])
}

func TestRecorderUniqueIDs(t *testing.T) {
	recorder := NewRecorder()
	ctx := context.Background()

	first, err := recorder.Record(ctx, ActionVoteCast, "bob", nil)
	require.NoError(t, err)
	second, err := recorder.Record(ctx, ActionVoteCast, "bob", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
