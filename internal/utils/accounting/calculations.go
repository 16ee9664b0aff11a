package accounting

import (
	"cmp"
	"slices"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CompareLedgerOrder orders entries by transaction date, then entry id.
// This is the only ordering running balances are defined over.
func CompareLedgerOrder(a, b domain.CashbookEntry) int {
	if c := a.TransactionDate.Compare(b.TransactionDate); c != 0 {
		return c
	}
	return cmp.Compare(a.EntryID, b.EntryID)
}

// SortLedgerOrder sorts entries in place into ledger order.
func SortLedgerOrder(entries []domain.CashbookEntry) {
	slices.SortFunc(entries, CompareLedgerOrder)
}

// RecomputeRunningBalances walks entries in ledger order, accumulating cash_in - cash_out
// from zero. It writes the new balance onto every entry and returns only the updates for
// rows whose stored balance differs, along with the closing balance.
//
// The input must already be in ledger order.
func RecomputeRunningBalances(entries []domain.CashbookEntry) ([]domain.BalanceUpdate, decimal.Decimal) {
	running := decimal.Zero
	var updates []domain.BalanceUpdate
	for i := range entries {
		running = running.Add(entries[i].SignedAmount())
		if !entries[i].Balance.Equal(running) {
			updates = append(updates, domain.BalanceUpdate{EntryID: entries[i].EntryID, Balance: running})
		}
		entries[i].Balance = running
	}
	return updates, running
}

// VerifyRunningBalances checks the stored balances of one account's entries, in ledger
// order, against the accumulating sum. It returns the first mismatch or nil.
func VerifyRunningBalances(accountID int64, entries []domain.CashbookEntry) *domain.AccountDrift {
	running := decimal.Zero
	for _, e := range entries {
		running = running.Add(e.SignedAmount())
		if !e.Balance.Equal(running) {
			return &domain.AccountDrift{
				AccountID:       accountID,
				FirstBadEntryID: e.EntryID,
				Stored:          e.Balance,
				Expected:        running,
			}
		}
	}
	return nil
}

// ProvisionalBalance is the balance a new entry gets before the full recomputation:
// the latest entry's balance plus the new signed amount, or the amount alone for a first entry.
func ProvisionalBalance(latest *domain.CashbookEntry, entry domain.CashbookEntry) decimal.Decimal {
	if latest == nil {
		return entry.SignedAmount()
	}
	return latest.Balance.Add(entry.SignedAmount())
}
