package pgsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/internal/models"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/query"
	"github.com/SscSPs/facility_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, transaction_date, quarter, hospital_id, facility_id, account_id, reference,
	vat_requirement, description, budget_line_id, activity_id, cash_in, cash_out, balance, created_at, updated_at`

type PgxCashbookRepository struct {
	BaseRepository
}

func newPgxCashbookRepository(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.CashbookRepositoryFacade {
	return &PgxCashbookRepository{BaseRepository: BaseRepository{Pool: pool, LockTimeout: lockTimeout}}
}

var _ portsrepo.CashbookRepositoryFacade = (*PgxCashbookRepository)(nil)

func scanEntry(row pgx.Row) (models.CashbookEntry, error) {
	var m models.CashbookEntry
	err := row.Scan(
		&m.EntryID, &m.TransactionDate, &m.Quarter, &m.HospitalID, &m.FacilityID, &m.AccountID, &m.Reference,
		&m.VATRequirement, &m.Description, &m.BudgetLineID, &m.ActivityID, &m.CashIn, &m.CashOut, &m.Balance,
		&m.CreatedAt, &m.LastUpdatedAt,
	)
	return m, err
}

func findEntry(ctx context.Context, q querier, entryID int64) (*domain.CashbookEntry, error) {
	m, err := scanEntry(q.QueryRow(ctx, `SELECT `+entryColumns+` FROM cashbook_entries WHERE entry_id = $1`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cashbook entry %d", apperrors.ErrNotFound, entryID)
		}
		return nil, mapPgError(err, fmt.Sprintf("failed to find cashbook entry %d", entryID))
	}
	e := mapping.ToDomainCashbookEntry(m)
	return &e, nil
}

func queryEntries(ctx context.Context, q querier, sql string, args ...any) ([]domain.CashbookEntry, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query cashbook entries")
	}
	defer rows.Close()

	entries := []models.CashbookEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan cashbook entry row")
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating cashbook entry rows")
	}
	return mapping.ToDomainCashbookEntrySlice(entries), nil
}

func listAccountEntries(ctx context.Context, q querier, accountID int64) ([]domain.CashbookEntry, error) {
	return queryEntries(ctx, q,
		`SELECT `+entryColumns+` FROM cashbook_entries WHERE account_id = $1 ORDER BY transaction_date ASC, entry_id ASC`,
		accountID)
}

// FindEntryByID retrieves an entry by its ID.
func (r *PgxCashbookRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.CashbookEntry, error) {
	return findEntry(ctx, r.Pool, entryID)
}

// ListEntries lists entries newest first.
func (r *PgxCashbookRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.CashbookEntry, error) {
	clause, args := query.EntryFilter(query.Postgres, filter)
	return queryEntries(ctx, r.Pool, `SELECT `+entryColumns+` FROM cashbook_entries`+clause, args...)
}

// ListAccountEntries returns the entries of an account in ledger order.
func (r *PgxCashbookRepository) ListAccountEntries(ctx context.Context, accountID int64) ([]domain.CashbookEntry, error) {
	return listAccountEntries(ctx, r.Pool, accountID)
}

// WithinTx implements portsrepo.UnitOfWork.
func (r *PgxCashbookRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.CashbookTx) error) error {
	return r.withinTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxCashbookTx{tx: tx})
	})
}

// pgxCashbookTx implements portsrepo.CashbookTx on one pgx transaction.
type pgxCashbookTx struct {
	tx pgx.Tx
}

var _ portsrepo.CashbookTx = (*pgxCashbookTx)(nil)

func (t *pgxCashbookTx) LockAccounts(ctx context.Context, accountIDs ...int64) (map[int64]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	// ORDER BY before FOR UPDATE makes every writer take row locks in ascending id order.
	rows, err := t.tx.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts a WHERE a.account_id = ANY($1) ORDER BY a.account_id FOR UPDATE`, ids)
	if err != nil {
		return nil, mapPgError(err, "failed to lock accounts")
	}
	defer rows.Close()

	locked := make(map[int64]domain.Account, len(ids))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to lock accounts")
		}
		locked[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "failed to lock accounts")
	}
	return locked, nil
}

func (t *pgxCashbookTx) FindEntry(ctx context.Context, entryID int64) (*domain.CashbookEntry, error) {
	return findEntry(ctx, t.tx, entryID)
}

func (t *pgxCashbookTx) CountEntriesOn(ctx context.Context, accountID int64, date time.Time) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM cashbook_entries WHERE account_id = $1 AND transaction_date = $2`,
		accountID, domain.DateOnly(date)).Scan(&n)
	if err != nil {
		return 0, mapPgError(err, "failed to count entries")
	}
	return n, nil
}

func (t *pgxCashbookTx) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM cashbook_entries WHERE reference = $1)`, reference).Scan(&exists)
	if err != nil {
		return false, mapPgError(err, "failed to check reference")
	}
	return exists, nil
}

func (t *pgxCashbookTx) LatestEntry(ctx context.Context, accountID int64) (*domain.CashbookEntry, error) {
	entries, err := queryEntries(ctx, t.tx,
		`SELECT `+entryColumns+` FROM cashbook_entries WHERE account_id = $1
		 ORDER BY transaction_date DESC, entry_id DESC LIMIT 1`, accountID)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (t *pgxCashbookTx) InsertEntry(ctx context.Context, entry *domain.CashbookEntry) error {
	now := time.Now().UTC()
	m := mapping.ToModelCashbookEntry(*entry)
	err := t.tx.QueryRow(ctx, `
		INSERT INTO cashbook_entries (transaction_date, quarter, hospital_id, facility_id, account_id, reference,
		                              vat_requirement, description, budget_line_id, activity_id, cash_in, cash_out,
		                              balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING entry_id`,
		m.TransactionDate, m.Quarter, m.HospitalID, m.FacilityID, m.AccountID, m.Reference,
		m.VATRequirement, m.Description, m.BudgetLineID, m.ActivityID, m.CashIn, m.CashOut,
		m.Balance, now,
	).Scan(&entry.EntryID)
	if err != nil {
		return mapPgError(err, "failed to insert cashbook entry")
	}
	entry.CreatedAt = now
	entry.LastUpdatedAt = now
	return nil
}

func (t *pgxCashbookTx) UpdateEntry(ctx context.Context, entry domain.CashbookEntry) error {
	m := mapping.ToModelCashbookEntry(entry)
	tag, err := t.tx.Exec(ctx, `
		UPDATE cashbook_entries
		SET transaction_date = $1, quarter = $2, hospital_id = $3, facility_id = $4, account_id = $5,
		    vat_requirement = $6, description = $7, budget_line_id = $8, activity_id = $9,
		    cash_in = $10, cash_out = $11, updated_at = $12
		WHERE entry_id = $13`,
		m.TransactionDate, m.Quarter, m.HospitalID, m.FacilityID, m.AccountID,
		m.VATRequirement, m.Description, m.BudgetLineID, m.ActivityID,
		m.CashIn, m.CashOut, time.Now().UTC(), m.EntryID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update cashbook entry %d", entry.EntryID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cashbook entry %d", apperrors.ErrNotFound, entry.EntryID)
	}
	return nil
}

func (t *pgxCashbookTx) DeleteEntry(ctx context.Context, entryID int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM cashbook_entries WHERE entry_id = $1`, entryID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to delete cashbook entry %d", entryID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cashbook entry %d", apperrors.ErrNotFound, entryID)
	}
	return nil
}

func (t *pgxCashbookTx) ListAccountEntries(ctx context.Context, accountID int64) ([]domain.CashbookEntry, error) {
	return listAccountEntries(ctx, t.tx, accountID)
}

func (t *pgxCashbookTx) UpdateBalances(ctx context.Context, updates []domain.BalanceUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(`UPDATE cashbook_entries SET balance = $1, updated_at = $2 WHERE entry_id = $3`, u.Balance, now, u.EntryID)
	}
	// Close surfaces the first failed statement of the batch.
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to write running balances")
	}
	return nil
}
