package services

import (
	"context"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountWithBalance retrieves an account and the balance of its most recent entry,
	// or zero when it has none.
	GetAccountWithBalance(ctx context.Context, scope domain.Scope, accountID int64) (*domain.AccountWithBalance, error)

	// ListAccounts retrieves the accounts visible to scope, each with its current balance.
	ListAccounts(ctx context.Context, scope domain.Scope, filter domain.AccountFilter) ([]domain.AccountWithBalance, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, scope domain.Scope, account domain.Account) (*domain.Account, error)

	// UpdateAccount updates an existing account's descriptive fields.
	UpdateAccount(ctx context.Context, scope domain.Scope, accountID int64, patch domain.AccountPatch) (*domain.Account, error)

	// DeleteAccount removes an account that has no cashbook entries.
	DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
