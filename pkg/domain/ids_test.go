package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "council/pkg/domain-errors"
)

// TestParseProposalID validates the parsing invariant: ids must be valid,
// non-empty, non-nil UUIDs.
func TestParseProposalID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseProposalID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseProposalID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseProposalID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseProposalID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ProposalID(valid), id)
	})

	t.Run("round-trips through String", func(t *testing.T) {
		id := NewProposalID()
		parsed, err := ParseProposalID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

// TestProposalIDJSON pins the wire form: ids encode as UUID strings, never
// as raw byte arrays.
func TestProposalIDJSON(t *testing.T) {
	type payload struct {
		ID ProposalID `json:"id"`
	}

	t.Run("marshals as UUID string", func(t *testing.T) {
		id := NewProposalID()
		data, err := json.Marshal(payload{ID: id})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(data))
	})

	t.Run("unmarshals from UUID string", func(t *testing.T) {
		id := NewProposalID()
		var got payload
		require.NoError(t, json.Unmarshal([]byte(`{"id":"`+id.String()+`"}`), &got))
		assert.Equal(t, id, got.ID)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		var got payload
		err := json.Unmarshal([]byte(`{"id":"not-a-uuid"}`), &got)
		require.Error(t, err)
	})
}

func TestEntryIDJSON(t *testing.T) {
	id := NewEntryID()
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(data))

	var parsed EntryID
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, id, parsed)
}

func TestParseEntryID(t *testing.T) {
	_, err := ParseEntryID("")
	require.Error(t, err)

	id := NewEntryID()
	parsed, err := ParseEntryID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}
