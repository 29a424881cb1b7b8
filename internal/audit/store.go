package audit

import "context"

// Store persists audit entries. Append-only: no update, no delete. Append is
// idempotent on the entry id so at-least-once delivery from the stream never
// duplicates the log.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// List returns entries in creation order.
	List(ctx context.Context) ([]Entry, error)
	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}
