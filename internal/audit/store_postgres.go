package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"council/pkg/domain"
	txcontext "council/pkg/platform/tx"
)

// PostgresStore persists the audit log in the audit_entries table. Writes
// respect a transaction carried in the context so a command's store mutation
// and its audit entry commit atomically.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	query := `
		INSERT INTO audit_entries (id, ts, action, actor, details)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(entry.ID),
		entry.Timestamp,
		string(entry.Action),
		string(entry.Actor),
		details,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, `
		SELECT id, ts, action, actor, details
		FROM audit_entries
		ORDER BY seq ASC
	`)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return s.query(ctx, `
			SELECT id, ts, action, actor, details
			FROM audit_entries
			ORDER BY seq DESC
		`)
	}
	return s.query(ctx, `
		SELECT id, ts, action, actor, details
		FROM audit_entries
		ORDER BY seq DESC
		LIMIT $1
	`, limit)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			id      uuid.UUID
			ts      time.Time
			action  string
			actor   string
			details []byte
		)
		if err := rows.Scan(&id, &ts, &action, &actor, &details); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry := Entry{
			ID:        domain.EntryID(id),
			Timestamp: ts,
			Action:    Action(action),
			Actor:     domain.Actor(actor),
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
