package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	"github.com/SscSPs/facility_finance_app/internal/middleware"
	"github.com/SscSPs/facility_finance_app/internal/utils/accounting"
)

// balanceEngine rewrites the running balances of an account. It is the only writer of
// CashbookEntry.Balance after insert and must run while the account row is locked.
type balanceEngine struct{}

// Recompute rewrites the running balances of accountID from zero in ledger order, then
// re-reads them and checks the invariant. It returns the number of rows it rewrote.
func (balanceEngine) Recompute(ctx context.Context, tx portsrepo.CashbookTx, accountID int64) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := tx.ListAccountEntries(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to load entries of account %d: %w", accountID, err)
	}
	accounting.SortLedgerOrder(entries)

	updates, closing := accounting.RecomputeRunningBalances(entries)
	if len(updates) > 0 {
		if err := tx.UpdateBalances(ctx, updates); err != nil {
			return 0, fmt.Errorf("failed to write balances of account %d: %w", accountID, err)
		}
	}

	persisted, err := tx.ListAccountEntries(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to re-read entries of account %d: %w", accountID, err)
	}
	accounting.SortLedgerOrder(persisted)
	if drift := accounting.VerifyRunningBalances(accountID, persisted); drift != nil {
		logger.Error("Running balance invariant violated after recompute",
			slog.Int64("account_id", accountID),
			slog.Int64("entry_id", drift.FirstBadEntryID),
			slog.String("stored", drift.Stored.String()),
			slog.String("expected", drift.Expected.String()))
		return 0, fmt.Errorf("%w: account %d entry %d has balance %s, expected %s",
			apperrors.ErrConsistency, accountID, drift.FirstBadEntryID, drift.Stored, drift.Expected)
	}

	logger.Debug("Recomputed account balances",
		slog.Int64("account_id", accountID),
		slog.Int("entries", len(entries)),
		slog.Int("rewritten", len(updates)),
		slog.String("closing_balance", closing.String()))
	return len(updates), nil
}
