package services

import (
	"context"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
)

// CashbookReaderSvc defines read operations for cashbook entries
type CashbookReaderSvc interface {
	// GetEntry retrieves a single entry visible to scope.
	GetEntry(ctx context.Context, scope domain.Scope, entryID int64) (*domain.CashbookEntry, error)

	// ListEntries lists entries visible to scope, newest first.
	ListEntries(ctx context.Context, scope domain.Scope, filter domain.EntryFilter) (*domain.EntryPage, error)
}

// CashbookWriterSvc defines the entry lifecycle. Every call is one atomic transaction that
// leaves the running balances of every touched account consistent.
type CashbookWriterSvc interface {
	// CreateEntry validates a draft, assigns quarter and reference when absent, persists it
	// and recomputes its account.
	CreateEntry(ctx context.Context, scope domain.Scope, draft domain.CashbookEntry) (*domain.CashbookEntry, error)

	// UpdateEntry applies a partial update and recomputes the old and new account when needed.
	UpdateEntry(ctx context.Context, scope domain.Scope, entryID int64, patch domain.CashbookPatch) (*domain.CashbookEntry, error)

	// DeleteEntry removes an entry and recomputes its account.
	DeleteEntry(ctx context.Context, scope domain.Scope, entryID int64) error
}

// BalanceMaintenanceSvc exposes administrative balance operations.
type BalanceMaintenanceSvc interface {
	// RecomputeAccount re-runs the balance engine for one account and returns the number of
	// rows whose balance changed.
	RecomputeAccount(ctx context.Context, scope domain.Scope, accountID int64) (int, error)

	// AuditBalances compares every account's stored balances with a fresh recomputation
	// without writing anything.
	AuditBalances(ctx context.Context, scope domain.Scope) ([]domain.AccountDrift, error)
}

// CashbookSvcFacade combines all cashbook-related service interfaces
type CashbookSvcFacade interface {
	CashbookReaderSvc
	CashbookWriterSvc
	BalanceMaintenanceSvc
}
