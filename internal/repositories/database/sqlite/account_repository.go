package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/internal/models"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/query"
	"github.com/SscSPs/facility_finance_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const accountColumns = `a.account_id, a.name, a.account_type, a.bank_name, a.account_number, a.mobile_provider,
	a.facility_id, a.hospital_id, a.created_at, a.updated_at`

const currentBalanceExpr = `COALESCE((
	SELECT e.balance FROM cashbook_entries e
	WHERE e.account_id = a.account_id
	ORDER BY e.transaction_date DESC, e.entry_id DESC
	LIMIT 1), '0')`

type scanner interface {
	Scan(dest ...any) error
}

type SQLiteAccountRepository struct {
	BaseRepository
}

func newSQLiteAccountRepository(writer, reader *sql.DB) portsrepo.AccountRepositoryFacade {
	return &SQLiteAccountRepository{BaseRepository: BaseRepository{Writer: writer, Reader: reader}}
}

var _ portsrepo.AccountRepositoryFacade = (*SQLiteAccountRepository)(nil)

func scanAccount(row scanner, extra ...any) (models.Account, error) {
	var m models.Account
	var createdAt, updatedAt string
	dest := []any{
		&m.AccountID, &m.Name, &m.AccountType, &m.BankName, &m.AccountNumber, &m.MobileProvider,
		&m.FacilityID, &m.HospitalID, &createdAt, &updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return m, err
	}
	m.LastUpdatedAt, err = parseTimestamp(updatedAt)
	return m, err
}

func (r *SQLiteAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	m := mapping.ToModelAccount(*account)
	res, err := r.Writer.ExecContext(ctx, `
		INSERT INTO accounts (name, account_type, bank_name, account_number, mobile_provider,
		                      facility_id, hospital_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.AccountType, m.BankName, m.AccountNumber, m.MobileProvider,
		m.FacilityID, m.HospitalID, formatTimestamp(now), formatTimestamp(now))
	if err != nil {
		return mapSQLiteError(err, "failed to insert account")
	}
	if account.AccountID, err = res.LastInsertId(); err != nil {
		return mapSQLiteError(err, "failed to read account id")
	}
	account.CreatedAt = now
	account.LastUpdatedAt = now
	return nil
}

func (r *SQLiteAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	m, err := scanAccount(r.Reader.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.account_id = ?`, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
		}
		return nil, mapSQLiteError(err, fmt.Sprintf("failed to find account %d", accountID))
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

func (r *SQLiteAccountRepository) FindAccountWithBalance(ctx context.Context, accountID int64) (*domain.AccountWithBalance, error) {
	var balance decimal.Decimal
	m, err := scanAccount(r.Reader.QueryRowContext(ctx,
		`SELECT `+accountColumns+`, `+currentBalanceExpr+` FROM accounts a WHERE a.account_id = ?`, accountID), &balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
		}
		return nil, mapSQLiteError(err, fmt.Sprintf("failed to find account %d", accountID))
	}
	return &domain.AccountWithBalance{Account: mapping.ToDomainAccount(m), CurrentBalance: balance}, nil
}

func (r *SQLiteAccountRepository) ListAccountsWithBalance(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountWithBalance, error) {
	where, args := query.AccountFilter(query.SQLite, "a", filter)
	rows, err := r.Reader.QueryContext(ctx,
		`SELECT `+accountColumns+`, `+currentBalanceExpr+` FROM accounts a`+where+` ORDER BY a.account_id`, args...)
	if err != nil {
		return nil, mapSQLiteError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []domain.AccountWithBalance{}
	for rows.Next() {
		var balance decimal.Decimal
		m, err := scanAccount(rows, &balance)
		if err != nil {
			return nil, mapSQLiteError(err, "failed to scan account row")
		}
		accounts = append(accounts, domain.AccountWithBalance{Account: mapping.ToDomainAccount(m), CurrentBalance: balance})
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err, "error iterating account rows")
	}
	return accounts, nil
}

func (r *SQLiteAccountRepository) ListAccountIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.Reader.QueryContext(ctx, `SELECT account_id FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, mapSQLiteError(err, "failed to list account ids")
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, mapSQLiteError(err, "failed to scan account id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	res, err := r.Writer.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, account_type = ?, bank_name = ?, account_number = ?, mobile_provider = ?, updated_at = ?
		WHERE account_id = ?`,
		m.Name, m.AccountType, m.BankName, m.AccountNumber, m.MobileProvider, formatTimestamp(time.Now()), m.AccountID)
	if err != nil {
		return mapSQLiteError(err, fmt.Sprintf("failed to update account %d", account.AccountID))
	}
	return requireAffected(res, fmt.Sprintf("account %d", account.AccountID))
}

func (r *SQLiteAccountRepository) DeleteAccount(ctx context.Context, accountID int64) error {
	res, err := r.Writer.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, accountID)
	if err != nil {
		return mapSQLiteError(err, fmt.Sprintf("account %d has cashbook entries and cannot be deleted", accountID))
	}
	return requireAffected(res, fmt.Sprintf("account %d", accountID))
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapSQLiteError(err, "failed to read affected rows")
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, what)
	}
	return nil
}
