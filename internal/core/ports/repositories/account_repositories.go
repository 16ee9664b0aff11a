package repositories

import (
	"context"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountWithBalance retrieves an account together with the balance of its latest
	// cashbook entry, in a single snapshot.
	FindAccountWithBalance(ctx context.Context, accountID int64) (*domain.AccountWithBalance, error)

	// ListAccountsWithBalance retrieves the accounts matching filter, ordered by id.
	ListAccountsWithBalance(ctx context.Context, filter domain.AccountFilter) ([]domain.AccountWithBalance, error)

	// ListAccountIDs returns every account id in ascending order.
	ListAccountIDs(ctx context.Context) ([]int64, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and sets its id and audit fields.
	SaveAccount(ctx context.Context, account *domain.Account) error

	// UpdateAccount updates an existing account's descriptive fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. It fails with ErrValidation while entries reference it.
	DeleteAccount(ctx context.Context, accountID int64) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
