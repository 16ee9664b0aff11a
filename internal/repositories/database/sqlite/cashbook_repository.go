package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/internal/models"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/query"
	"github.com/SscSPs/facility_finance_app/internal/utils/mapping"
)

const entryColumns = `entry_id, transaction_date, quarter, hospital_id, facility_id, account_id, reference,
	vat_requirement, description, budget_line_id, activity_id, cash_in, cash_out, balance, created_at, updated_at`

type SQLiteCashbookRepository struct {
	BaseRepository
}

func newSQLiteCashbookRepository(writer, reader *sql.DB) portsrepo.CashbookRepositoryFacade {
	return &SQLiteCashbookRepository{BaseRepository: BaseRepository{Writer: writer, Reader: reader}}
}

var _ portsrepo.CashbookRepositoryFacade = (*SQLiteCashbookRepository)(nil)

func scanEntry(row scanner) (models.CashbookEntry, error) {
	var m models.CashbookEntry
	var txDate, createdAt, updatedAt string
	err := row.Scan(
		&m.EntryID, &txDate, &m.Quarter, &m.HospitalID, &m.FacilityID, &m.AccountID, &m.Reference,
		&m.VATRequirement, &m.Description, &m.BudgetLineID, &m.ActivityID, &m.CashIn, &m.CashOut, &m.Balance,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return m, err
	}
	if m.TransactionDate, err = parseDate(txDate); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return m, err
	}
	m.LastUpdatedAt, err = parseTimestamp(updatedAt)
	return m, err
}

func findEntry(ctx context.Context, q querier, entryID int64) (*domain.CashbookEntry, error) {
	m, err := scanEntry(q.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM cashbook_entries WHERE entry_id = ?`, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: cashbook entry %d", apperrors.ErrNotFound, entryID)
		}
		return nil, mapSQLiteError(err, fmt.Sprintf("failed to find cashbook entry %d", entryID))
	}
	e := mapping.ToDomainCashbookEntry(m)
	return &e, nil
}

func queryEntries(ctx context.Context, q querier, stmt string, args ...any) ([]domain.CashbookEntry, error) {
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, mapSQLiteError(err, "failed to query cashbook entries")
	}
	defer rows.Close()

	entries := []models.CashbookEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, mapSQLiteError(err, "failed to scan cashbook entry row")
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err, "error iterating cashbook entry rows")
	}
	return mapping.ToDomainCashbookEntrySlice(entries), nil
}

func listAccountEntries(ctx context.Context, q querier, accountID int64) ([]domain.CashbookEntry, error) {
	return queryEntries(ctx, q,
		`SELECT `+entryColumns+` FROM cashbook_entries WHERE account_id = ? ORDER BY transaction_date ASC, entry_id ASC`,
		accountID)
}

func (r *SQLiteCashbookRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.CashbookEntry, error) {
	return findEntry(ctx, r.Reader, entryID)
}

func (r *SQLiteCashbookRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.CashbookEntry, error) {
	clause, args := query.EntryFilter(query.SQLite, filter)
	return queryEntries(ctx, r.Reader, `SELECT `+entryColumns+` FROM cashbook_entries`+clause, args...)
}

func (r *SQLiteCashbookRepository) ListAccountEntries(ctx context.Context, accountID int64) ([]domain.CashbookEntry, error) {
	return listAccountEntries(ctx, r.Reader, accountID)
}

// WithinTx runs fn in an IMMEDIATE transaction on the writer pool.
func (r *SQLiteCashbookRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.CashbookTx) error) error {
	return r.withinTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &sqliteCashbookTx{tx: tx})
	})
}

// sqliteCashbookTx implements portsrepo.CashbookTx. The IMMEDIATE transaction already holds
// the database write lock, so LockAccounts only has to read the rows.
type sqliteCashbookTx struct {
	tx *sql.Tx
}

var _ portsrepo.CashbookTx = (*sqliteCashbookTx)(nil)

func (t *sqliteCashbookTx) LockAccounts(ctx context.Context, accountIDs ...int64) (map[int64]domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return map[int64]domain.Account{}, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts a WHERE a.account_id IN (`+placeholders+`) ORDER BY a.account_id`, args...)
	if err != nil {
		return nil, mapSQLiteError(err, "failed to lock accounts")
	}
	defer rows.Close()

	locked := make(map[int64]domain.Account, len(ids))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, mapSQLiteError(err, "failed to lock accounts")
		}
		locked[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err, "failed to lock accounts")
	}
	return locked, nil
}

func (t *sqliteCashbookTx) FindEntry(ctx context.Context, entryID int64) (*domain.CashbookEntry, error) {
	return findEntry(ctx, t.tx, entryID)
}

func (t *sqliteCashbookTx) CountEntriesOn(ctx context.Context, accountID int64, date time.Time) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cashbook_entries WHERE account_id = ? AND transaction_date = ?`,
		accountID, formatDate(date)).Scan(&n)
	if err != nil {
		return 0, mapSQLiteError(err, "failed to count entries")
	}
	return n, nil
}

func (t *sqliteCashbookTx) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cashbook_entries WHERE reference = ?)`, reference).Scan(&exists)
	if err != nil {
		return false, mapSQLiteError(err, "failed to check reference")
	}
	return exists, nil
}

func (t *sqliteCashbookTx) LatestEntry(ctx context.Context, accountID int64) (*domain.CashbookEntry, error) {
	entries, err := queryEntries(ctx, t.tx,
		`SELECT `+entryColumns+` FROM cashbook_entries WHERE account_id = ?
		 ORDER BY transaction_date DESC, entry_id DESC LIMIT 1`, accountID)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[0], nil
}

func (t *sqliteCashbookTx) InsertEntry(ctx context.Context, entry *domain.CashbookEntry) error {
	now := time.Now().UTC()
	stamp := formatTimestamp(now)
	m := mapping.ToModelCashbookEntry(*entry)
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO cashbook_entries (transaction_date, quarter, hospital_id, facility_id, account_id, reference,
		                              vat_requirement, description, budget_line_id, activity_id, cash_in, cash_out,
		                              balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatDate(m.TransactionDate), m.Quarter, m.HospitalID, m.FacilityID, m.AccountID, m.Reference,
		m.VATRequirement, m.Description, m.BudgetLineID, m.ActivityID, m.CashIn, m.CashOut,
		m.Balance, stamp, stamp,
	)
	if err != nil {
		return mapSQLiteError(err, "failed to insert cashbook entry")
	}
	if entry.EntryID, err = res.LastInsertId(); err != nil {
		return mapSQLiteError(err, "failed to read cashbook entry id")
	}
	entry.CreatedAt = now
	entry.LastUpdatedAt = now
	return nil
}

func (t *sqliteCashbookTx) UpdateEntry(ctx context.Context, entry domain.CashbookEntry) error {
	m := mapping.ToModelCashbookEntry(entry)
	res, err := t.tx.ExecContext(ctx, `
		UPDATE cashbook_entries
		SET transaction_date = ?, quarter = ?, hospital_id = ?, facility_id = ?, account_id = ?,
		    vat_requirement = ?, description = ?, budget_line_id = ?, activity_id = ?,
		    cash_in = ?, cash_out = ?, updated_at = ?
		WHERE entry_id = ?`,
		formatDate(m.TransactionDate), m.Quarter, m.HospitalID, m.FacilityID, m.AccountID,
		m.VATRequirement, m.Description, m.BudgetLineID, m.ActivityID,
		m.CashIn, m.CashOut, formatTimestamp(time.Now()), m.EntryID)
	if err != nil {
		return mapSQLiteError(err, fmt.Sprintf("failed to update cashbook entry %d", entry.EntryID))
	}
	return requireAffected(res, fmt.Sprintf("cashbook entry %d", entry.EntryID))
}

func (t *sqliteCashbookTx) DeleteEntry(ctx context.Context, entryID int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM cashbook_entries WHERE entry_id = ?`, entryID)
	if err != nil {
		return mapSQLiteError(err, fmt.Sprintf("failed to delete cashbook entry %d", entryID))
	}
	return requireAffected(res, fmt.Sprintf("cashbook entry %d", entryID))
}

func (t *sqliteCashbookTx) ListAccountEntries(ctx context.Context, accountID int64) ([]domain.CashbookEntry, error) {
	return listAccountEntries(ctx, t.tx, accountID)
}

func (t *sqliteCashbookTx) UpdateBalances(ctx context.Context, updates []domain.BalanceUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	stmt, err := t.tx.PrepareContext(ctx, `UPDATE cashbook_entries SET balance = ?, updated_at = ? WHERE entry_id = ?`)
	if err != nil {
		return mapSQLiteError(err, "failed to prepare balance update")
	}
	defer stmt.Close()

	stamp := formatTimestamp(time.Now())
	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Balance, stamp, u.EntryID); err != nil {
			return mapSQLiteError(err, "failed to write running balances")
		}
	}
	return nil
}
