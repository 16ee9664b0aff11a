// Package sqlite is the SQLite store, used for development and tests. Writes go through a
// single-connection pool whose transactions start with BEGIN IMMEDIATE; reads use a
// separate pool and see WAL snapshots.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
)

// SQLite result codes the store classifies. Extended codes carry the primary code in
// their low byte.
const (
	codeBusy             = 5
	codeLocked           = 6
	codeConstraint       = 19
	codeConstraintCheck  = 275
	codeConstraintFK     = 787
	codeConstraintNull   = 1299
	codeConstraintPK     = 1555
	codeConstraintUnique = 2067
)

const timestampLayout = time.RFC3339Nano

// coder is implemented by modernc.org/sqlite errors.
type coder interface {
	Code() int
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BaseRepository holds the writer and reader pools.
type BaseRepository struct {
	Writer *sql.DB
	Reader *sql.DB
}

// Begin starts a write transaction. The DSN's _txlock=immediate turns it into BEGIN IMMEDIATE.
func (r *BaseRepository) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.Writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapSQLiteError(err, "failed to begin transaction")
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return mapSQLiteError(err, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

func (r *BaseRepository) withinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored once the transaction is committed.
	defer r.Rollback(tx)

	if err := fn(tx); err != nil {
		return err
	}
	return r.Commit(tx)
}

// mapSQLiteError classifies driver errors into the application error taxonomy.
func mapSQLiteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var c coder
	if errors.As(err, &c) {
		code := c.Code()
		switch {
		case code&0xff == codeBusy, code&0xff == codeLocked:
			return fmt.Errorf("%w: %s: database is locked", apperrors.ErrContention, msg)
		case code == codeConstraintUnique, code == codeConstraintPK:
			return fmt.Errorf("%w: %s: %v", apperrors.ErrDuplicate, msg, err)
		case code == codeConstraintFK:
			return fmt.Errorf("%w: %s: record is still referenced", apperrors.ErrValidation, msg)
		case code == codeConstraintCheck, code == codeConstraintNull, code&0xff == codeConstraint:
			return fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, msg, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: deadline exceeded", apperrors.ErrContention, msg)
	}
	return apperrors.NewAppError(500, msg, err)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

func formatDate(t time.Time) string {
	return domain.DateOnly(t).Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}
