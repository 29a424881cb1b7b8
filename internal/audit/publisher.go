package audit

import (
	"context"
	"log/slog"

	"council/pkg/domain"
	dErrors "council/pkg/domain-errors"
)

// Stream carries audit entries to an external sink (the Kafka topic) after
// they are durably stored. Delivery is at-least-once; sinks rely on the
// idempotent entry id.
type Stream interface {
	Publish(ctx context.Context, entry Entry) error
}

// Publisher records and persists audit entries with fail-closed semantics:
// if the entry cannot be appended, the caller's command must fail. Stream
// delivery happens after the append and is best-effort, since the store is
// the source of truth.
type Publisher struct {
	recorder *Recorder
	store    Store
	stream   Stream
	logger   *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithStream attaches an external sink for recorded entries.
func WithStream(stream Stream) Option {
	return func(p *Publisher) {
		p.stream = stream
	}
}

// WithLogger sets a logger for stream delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		recorder: NewRecorder(),
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Record builds an entry and appends it to the log. A store failure is
// returned to the caller: the triggering command must not report success
// when its audit entry did not durably complete.
func (p *Publisher) Record(ctx context.Context, action Action, actor domain.Actor, details map[string]string) (Entry, error) {
	entry, err := p.recorder.Record(ctx, action, actor, details)
	if err != nil {
		return Entry{}, err
	}
	if err := p.store.Append(ctx, entry); err != nil {
		return Entry{}, dErrors.Wrap(err, dErrors.CodeInternal, "audit append failed")
	}

	if p.stream != nil {
		if err := p.stream.Publish(ctx, entry); err != nil {
			p.logger.ErrorContext(ctx, "audit stream publish failed",
				"entry_id", entry.ID.String(),
				"action", string(entry.Action),
				"error", err,
			)
		}
	}
	return entry, nil
}

// List returns the full log in creation order.
func (p *Publisher) List(ctx context.Context) ([]Entry, error) {
	return p.store.List(ctx)
}

// ListRecent returns up to limit entries, newest first.
func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	return p.store.ListRecent(ctx, limit)
}

// Count returns the log length.
func (p *Publisher) Count(ctx context.Context) (int, error) {
	return p.store.Count(ctx)
}
