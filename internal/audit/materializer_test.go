package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"council/internal/platform/kafka"
	"council/internal/platform/logger"
	"council/pkg/domain"
)

func streamMessage(t *testing.T, entry Entry) *kafka.Message {
	t.Helper()
	value, err := json.Marshal(streamPayload{
		ID:        entry.ID.String(),
		Timestamp: entry.Timestamp.Format(time.RFC3339Nano),
		Action:    string(entry.Action),
		Actor:     string(entry.Actor),
		Details:   entry.Details,
	})
	require.NoError(t, err)
	return &kafka.Message{Topic: "council.audit", Key: []byte(entry.ID.String()), Value: value}
}

func TestMaterializerAppliesEntry(t *testing.T) {
	store := NewInMemoryStore()
	mat := NewMaterializer(store, logger.New())

	entry := Entry{
		ID:        domain.NewEntryID(),
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Action:    ActionVoteCast,
		Actor:     "bob",
		Details:   map[string]string{"choice": "approve"},
	}
	require.NoError(t, mat.Handle(context.Background(), streamMessage(t, entry)))

	listed, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entry.ID, listed[0].ID)
	assert.Equal(t, "approve", listed[0].Details["choice"])
}

func TestMaterializerIdempotentOnRedelivery(t *testing.T) {
	store := NewInMemoryStore()
	mat := NewMaterializer(store, logger.New())

	entry := Entry{ID: domain.NewEntryID(), Timestamp: time.Now(), Action: ActionVoteCast, Actor: "bob"}
	msg := streamMessage(t, entry)
	require.NoError(t, mat.Handle(context.Background(), msg))
	require.NoError(t, mat.Handle(context.Background(), msg))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// TestMaterializerSubstitutesInvalidTimestamp: an unparseable timestamp does
// not drop the record; the entry lands with the arrival time instead.
func TestMaterializerSubstitutesInvalidTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	mat := NewMaterializer(store, logger.New())

	entry := Entry{ID: domain.NewEntryID(), Action: ActionProposalSubmitted, Actor: "alice"}
	value, err := json.Marshal(streamPayload{
		ID:        entry.ID.String(),
		Timestamp: "yesterday-ish",
		Action:    string(entry.Action),
		Actor:     string(entry.Actor),
	})
	require.NoError(t, err)

	before := time.Now()
	require.NoError(t, mat.Handle(context.Background(), &kafka.Message{Key: []byte(entry.ID.String()), Value: value}))

	listed, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, entry.ID, listed[0].ID)
	assert.False(t, listed[0].Timestamp.Before(before))
	assert.False(t, listed[0].Timestamp.After(time.Now()))
}

func TestMaterializerSkipsMalformedRecords(t *testing.T) {
	store := NewInMemoryStore()
	mat := NewMaterializer(store, logger.New())

	// Malformed records commit rather than wedging the partition.
	require.NoError(t, mat.Handle(context.Background(), &kafka.Message{Value: []byte("not json")}))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
