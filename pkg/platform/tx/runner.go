package tx

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "council/pkg/domain-errors"
)

// defaultTxTimeout bounds a single command's transaction.
const defaultTxTimeout = 5 * time.Second

// Runner provides an atomic scope for a command's store mutations. The SQL
// implementation wraps a database transaction; the in-memory implementation
// serializes commands behind a mutex so check-then-append sequences stay
// race-free.
type Runner interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// SQLRunner runs fn inside a *sql.Tx carried through the context. Stores
// pick the transaction up via From and fall back to their own *sql.DB when
// none is present.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := r.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "begin transaction")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "commit transaction")
	}
	return nil
}

// MemoryRunner is the in-memory twin: a single coarse lock around each
// command. Guarantees the duplicate-vote check and the insert are never
// interleaved under concurrent callers.
type MemoryRunner struct {
	mu sync.Mutex
}

func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{}
}

func (r *MemoryRunner) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}
