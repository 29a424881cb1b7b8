package proposal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"council/pkg/domain"
	txcontext "council/pkg/platform/tx"
	"council/pkg/platform/sentinel"
)

// Postgres persists proposals in the proposals table. Mutations respect a
// transaction carried in the context; Execute uses SELECT ... FOR UPDATE so
// validate and mutate run under the row lock.
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

const uniqueViolation = "23505"

func (s *Postgres) Create(ctx context.Context, p *Proposal) error {
	var congress, number sql.NullInt64
	var billType sql.NullString
	if p.Bill != nil {
		congress = sql.NullInt64{Int64: int64(p.Bill.Congress), Valid: true}
		billType = sql.NullString{String: p.Bill.Type, Valid: true}
		number = sql.NullInt64{Int64: int64(p.Bill.Number), Valid: true}
	}

	query := `
		INSERT INTO proposals (id, title, description, author, status, created_at, voting_ends_at, bill_congress, bill_type, bill_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.ID), p.Title, p.Description, string(p.Author), string(p.Status),
		p.CreatedAt, p.VotingEndsAt, congress, billType, number,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

const proposalColumns = `id, title, description, author, status, created_at, voting_ends_at, bill_congress, bill_type, bill_number`

func (s *Postgres) FindByID(ctx context.Context, id domain.ProposalID) (*Proposal, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE id = $1`, uuid.UUID(id))
	p, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find proposal: %w", err)
	}
	return p, nil
}

func (s *Postgres) List(ctx context.Context) ([]*Proposal, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+proposalColumns+` FROM proposals ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var out []*Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM proposals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count proposals: %w", err)
	}
	return count, nil
}

// Execute runs validate and mutate under a row lock. When no transaction is
// in the context it opens one, since FOR UPDATE is meaningless outside a
// transaction.
func (s *Postgres) Execute(ctx context.Context, id domain.ProposalID, validate func(*Proposal) error, mutate func(*Proposal)) (*Proposal, error) {
	if _, ok := txcontext.From(ctx); !ok {
		sqlTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin execute tx: %w", err)
		}
		defer func() { _ = sqlTx.Rollback() }()

		p, err := s.executeLocked(txcontext.WithTx(ctx, sqlTx), id, validate, mutate)
		if err != nil {
			return nil, err
		}
		if err := sqlTx.Commit(); err != nil {
			return nil, fmt.Errorf("commit execute tx: %w", err)
		}
		return p, nil
	}
	return s.executeLocked(ctx, id, validate, mutate)
}

func (s *Postgres) executeLocked(ctx context.Context, id domain.ProposalID, validate func(*Proposal) error, mutate func(*Proposal)) (*Proposal, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE id = $1 FOR UPDATE`, uuid.UUID(id))
	p, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock proposal: %w", err)
	}

	if err := validate(p); err != nil {
		return nil, err
	}
	mutate(p)

	_, err = s.execer(ctx).ExecContext(ctx,
		`UPDATE proposals SET status = $1 WHERE id = $2`, string(p.Status), uuid.UUID(p.ID))
	if err != nil {
		return nil, fmt.Errorf("update proposal: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProposal(row rowScanner) (*Proposal, error) {
	var (
		id           uuid.UUID
		title        string
		description  string
		author       string
		status       string
		createdAt    time.Time
		votingEndsAt sql.NullTime
		congress     sql.NullInt64
		billType     sql.NullString
		number       sql.NullInt64
	)
	if err := row.Scan(&id, &title, &description, &author, &status, &createdAt, &votingEndsAt, &congress, &billType, &number); err != nil {
		return nil, err
	}

	p := &Proposal{
		ID:          domain.ProposalID(id),
		Title:       title,
		Description: description,
		Author:      domain.Actor(author),
		Status:      Status(status),
		CreatedAt:   createdAt,
	}
	if votingEndsAt.Valid {
		t := votingEndsAt.Time
		p.VotingEndsAt = &t
	}
	if congress.Valid && billType.Valid && number.Valid {
		p.Bill = &BillRef{
			Congress: int(congress.Int64),
			Type:     billType.String,
			Number:   int(number.Int64),
		}
	}
	return p, nil
}
