package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"council/internal/platform/kafka"
	"council/pkg/domain"
)

// Materializer consumes the audit topic and writes entries into a query
// store (a replica or long-retention archive). Malformed records are logged
// and committed rather than retried forever; well-formed records are applied
// through the store's idempotent append.
type Materializer struct {
	store  Store
	logger *slog.Logger
}

func NewMaterializer(store Store, logger *slog.Logger) *Materializer {
	return &Materializer{store: store, logger: logger}
}

func (m *Materializer) Handle(ctx context.Context, msg *kafka.Message) error {
	entry, ok := m.decode(msg)
	if !ok {
		return nil
	}
	if err := m.store.Append(ctx, entry); err != nil {
		m.logger.Error("materialize audit entry",
			"entry_id", entry.ID.String(),
			"error", err,
		)
		return err
	}
	return nil
}

func (m *Materializer) decode(msg *kafka.Message) (Entry, bool) {
	var payload streamPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		m.logger.Error("malformed audit record, skipping",
			"key", string(msg.Key),
			"error", err,
		)
		return Entry{}, false
	}

	id, err := domain.ParseEntryID(payload.ID)
	if err != nil {
		m.logger.Error("audit record with invalid id, skipping",
			"id", payload.ID,
			"error", err,
		)
		return Entry{}, false
	}

	ts, err := time.Parse(time.RFC3339Nano, payload.Timestamp)
	if err != nil {
		ts = time.Now()
		m.logger.Warn("audit record with invalid timestamp, substituting arrival time",
			"entry_id", id.String(),
			"timestamp", payload.Timestamp,
			"error", err,
		)
	}

	return Entry{
		ID:        id,
		Timestamp: ts,
		Action:    Action(payload.Action),
		Actor:     domain.Actor(payload.Actor),
		Details:   payload.Details,
	}, true
}
