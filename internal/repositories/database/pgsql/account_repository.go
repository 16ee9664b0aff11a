package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/internal/models"
	"github.com/SscSPs/facility_finance_app/internal/repositories/database/query"
	"github.com/SscSPs/facility_finance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `a.account_id, a.name, a.account_type, a.bank_name, a.account_number, a.mobile_provider,
	a.facility_id, a.hospital_id, a.created_at, a.updated_at`

// currentBalanceExpr is the balance of the latest entry of account a in ledger order.
const currentBalanceExpr = `COALESCE((
	SELECT e.balance FROM cashbook_entries e
	WHERE e.account_id = a.account_id
	ORDER BY e.transaction_date DESC, e.entry_id DESC
	LIMIT 1), 0)`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row, extra ...any) (models.Account, error) {
	var m models.Account
	dest := []any{
		&m.AccountID, &m.Name, &m.AccountType, &m.BankName, &m.AccountNumber, &m.MobileProvider,
		&m.FacilityID, &m.HospitalID, &m.CreatedAt, &m.LastUpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return m, err
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	m := mapping.ToModelAccount(*account)
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO accounts (name, account_type, bank_name, account_number, mobile_provider,
		                      facility_id, hospital_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING account_id`,
		m.Name, m.AccountType, m.BankName, m.AccountNumber, m.MobileProvider,
		m.FacilityID, m.HospitalID, now,
	).Scan(&account.AccountID)
	if err != nil {
		return mapPgError(err, "failed to insert account")
	}
	account.CreatedAt = now
	account.LastUpdatedAt = now
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	m, err := scanAccount(r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.account_id = $1`, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
		}
		return nil, mapPgError(err, fmt.Sprintf("failed to find account %d", accountID))
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountWithBalance retrieves an account and its current balance in one statement.
func (r *PgxAccountRepository) FindAccountWithBalance(ctx context.Context, accountID int64) (*domain.AccountWithBalance, error) {
	var balance decimal.Decimal
	m, err := scanAccount(r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+`, `+currentBalanceExpr+` FROM accounts a WHERE a.account_id = $1`, accountID), &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
		}
		return nil, mapPgError(err, fmt.Sprintf("failed to find account %d", accountID))
	}
	return &domain.AccountWithBalance{Account: mapping.ToDomainAccount(m), CurrentBalance: balance}, nil
}

// ListAccountsWithBalance lists accounts matching filter with their current balances.
func (r *PgxAccountRepository) ListAccountsWithBalance(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountWithBalance, error) {
	where, args := query.AccountFilter(query.Postgres, "a", filter)
	rows, err := r.Pool.Query(ctx,
		`SELECT `+accountColumns+`, `+currentBalanceExpr+` FROM accounts a`+where+` ORDER BY a.account_id`, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []domain.AccountWithBalance{}
	for rows.Next() {
		var balance decimal.Decimal
		m, err := scanAccount(rows, &balance)
		if err != nil {
			return nil, mapPgError(err, "failed to scan account row")
		}
		accounts = append(accounts, domain.AccountWithBalance{Account: mapping.ToDomainAccount(m), CurrentBalance: balance})
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account rows")
	}
	return accounts, nil
}

// ListAccountIDs returns every account id in ascending order.
func (r *PgxAccountRepository) ListAccountIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.Pool.Query(ctx, `SELECT account_id FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, mapPgError(err, "failed to list account ids")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, mapPgError(err, "failed to scan account ids")
	}
	return ids, nil
}

// UpdateAccount updates an account's descriptive fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts
		SET name = $1, account_type = $2, bank_name = $3, account_number = $4, mobile_provider = $5, updated_at = $6
		WHERE account_id = $7`,
		m.Name, m.AccountType, m.BankName, m.AccountNumber, m.MobileProvider, time.Now().UTC(), m.AccountID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update account %d", account.AccountID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, account.AccountID)
	}
	return nil
}

// DeleteAccount removes an account without entries.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, accountID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("account %d has cashbook entries and cannot be deleted", accountID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	return nil
}
