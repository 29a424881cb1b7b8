package vote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"council/pkg/domain"
	"council/pkg/platform/sentinel"
	txcontext "council/pkg/platform/tx"
)

// Postgres persists votes in the votes table. The table's primary key is
// the uniqueness invariant; CastIfAbsent races through
// INSERT ... ON CONFLICT DO NOTHING so the check and the insert are one
// statement.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbtx {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) CastIfAbsent(ctx context.Context, v Vote) error {
	query := `
		INSERT INTO votes (proposal_id, voter, choice, cast_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (proposal_id, voter) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(v.ProposalID), string(v.Voter), string(v.Choice), v.Timestamp)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert vote rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *Postgres) HasVoted(ctx context.Context, proposalID domain.ProposalID, voter domain.Actor) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM votes WHERE proposal_id = $1 AND voter = $2)`,
		uuid.UUID(proposalID), string(voter)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return exists, nil
}

func (s *Postgres) ListFor(ctx context.Context, proposalID domain.ProposalID) ([]Vote, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT proposal_id, voter, choice, cast_at
		FROM votes
		WHERE proposal_id = $1
		ORDER BY cast_at ASC
	`, uuid.UUID(proposalID))
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var votes []Vote
	for rows.Next() {
		var (
			pid    uuid.UUID
			voter  string
			choice string
			castAt time.Time
		)
		if err := rows.Scan(&pid, &voter, &choice, &castAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, Vote{
			ProposalID: domain.ProposalID(pid),
			Voter:      domain.Actor(voter),
			Choice:     Choice(choice),
			Timestamp:  castAt,
		})
	}
	return votes, rows.Err()
}

func (s *Postgres) TallyFor(ctx context.Context, proposalID domain.ProposalID) (Tally, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT choice, COUNT(*)
		FROM votes
		WHERE proposal_id = $1
		GROUP BY choice
	`, uuid.UUID(proposalID))
	if err != nil {
		return Tally{}, fmt.Errorf("tally votes: %w", err)
	}
	defer rows.Close()

	var tally Tally
	for rows.Next() {
		var choice string
		var count int
		if err := rows.Scan(&choice, &count); err != nil {
			return Tally{}, fmt.Errorf("scan tally: %w", err)
		}
		switch Choice(choice) {
		case ChoiceApprove:
			tally.Approve = count
		case ChoiceReject:
			tally.Reject = count
		case ChoiceAbstain:
			tally.Abstain = count
		}
		tally.Total += count
	}
	return tally, rows.Err()
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}
