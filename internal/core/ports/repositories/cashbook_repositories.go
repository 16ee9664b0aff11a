package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
)

// CashbookReader defines lock-free read operations for cashbook data.
// Each method is a single statement and sees one committed snapshot.
type CashbookReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.CashbookEntry, error)

	// ListEntries returns entries matching filter ordered by (transaction date desc, id desc),
	// starting after filter.After and returning at most filter.Limit rows when Limit > 0.
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.CashbookEntry, error)

	// ListAccountEntries returns every entry of an account in ledger order.
	ListAccountEntries(ctx context.Context, accountID int64) ([]domain.CashbookEntry, error)
}

// CashbookTx is the view of the store inside one ledger write transaction.
// Every method runs on the same transaction.
type CashbookTx interface {
	// LockAccounts takes an exclusive lock on each account row in ascending id order and
	// returns the accounts that exist. Missing ids are absent from the map.
	LockAccounts(ctx context.Context, accountIDs ...int64) (map[int64]domain.Account, error)

	// FindEntry re-reads an entry inside the transaction.
	FindEntry(ctx context.Context, entryID int64) (*domain.CashbookEntry, error)

	// CountEntriesOn counts the entries of an account on one transaction date.
	CountEntriesOn(ctx context.Context, accountID int64, date time.Time) (int, error)

	// ReferenceExists reports whether any entry already carries reference.
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// LatestEntry returns the last entry of an account in ledger order, or nil if it has none.
	LatestEntry(ctx context.Context, accountID int64) (*domain.CashbookEntry, error)

	// InsertEntry persists a new entry and sets its id and audit fields.
	InsertEntry(ctx context.Context, entry *domain.CashbookEntry) error

	// UpdateEntry rewrites every column of an existing entry except its balance.
	UpdateEntry(ctx context.Context, entry domain.CashbookEntry) error

	// DeleteEntry removes an entry.
	DeleteEntry(ctx context.Context, entryID int64) error

	// ListAccountEntries returns every entry of an account in ledger order.
	ListAccountEntries(ctx context.Context, accountID int64) ([]domain.CashbookEntry, error)

	// UpdateBalances writes recomputed running balances.
	UpdateBalances(ctx context.Context, updates []domain.BalanceUpdate) error
}

// CashbookRepositoryFacade combines all cashbook-related repository interfaces
type CashbookRepositoryFacade interface {
	CashbookReader
	UnitOfWork
}
