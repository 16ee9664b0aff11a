package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func entry(id int64, day int, in, out string) domain.CashbookEntry {
	e := domain.CashbookEntry{
		EntryID:         id,
		AccountID:       1,
		TransactionDate: time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC),
	}
	if in != "" {
		e.CashIn = amount(in)
	}
	if out != "" {
		e.CashOut = amount(out)
	}
	return e
}

func TestSortLedgerOrder(t *testing.T) {
	entries := []domain.CashbookEntry{
		entry(5, 10, "1", ""),
		entry(2, 10, "1", ""),
		entry(9, 3, "1", ""),
	}
	SortLedgerOrder(entries)

	ids := []int64{entries[0].EntryID, entries[1].EntryID, entries[2].EntryID}
	assert.Equal(t, []int64{9, 2, 5}, ids)
}

func TestRecomputeRunningBalances(t *testing.T) {
	entries := []domain.CashbookEntry{
		entry(1, 5, "100", ""),
		entry(2, 10, "", "30"),
		entry(3, 10, "0.15", ""),
	}

	updates, closing := RecomputeRunningBalances(entries)

	require.Len(t, updates, 3)
	assert.True(t, entries[0].Balance.Equal(decimal.NewFromInt(100)))
	assert.True(t, entries[1].Balance.Equal(decimal.NewFromInt(70)))
	assert.True(t, entries[2].Balance.Equal(decimal.RequireFromString("70.15")))
	assert.True(t, closing.Equal(decimal.RequireFromString("70.15")))

	t.Run("second pass is a no-op", func(t *testing.T) {
		again, closingAgain := RecomputeRunningBalances(entries)
		assert.Empty(t, again)
		assert.True(t, closing.Equal(closingAgain))
	})
}

func TestRecomputeRunningBalances_OnlyChangedRows(t *testing.T) {
	entries := []domain.CashbookEntry{
		entry(1, 5, "100", ""),
		entry(2, 10, "", "30"),
	}
	entries[0].Balance = decimal.NewFromInt(100)
	entries[1].Balance = decimal.NewFromInt(-30)

	updates, _ := RecomputeRunningBalances(entries)

	require.Len(t, updates, 1)
	assert.Equal(t, int64(2), updates[0].EntryID)
	assert.True(t, updates[0].Balance.Equal(decimal.NewFromInt(70)))
}

func TestRecomputeRunningBalances_Empty(t *testing.T) {
	updates, closing := RecomputeRunningBalances(nil)
	assert.Empty(t, updates)
	assert.True(t, closing.IsZero())
}

func TestVerifyRunningBalances(t *testing.T) {
	entries := []domain.CashbookEntry{
		entry(1, 5, "100", ""),
		entry(2, 10, "", "30"),
	}
	RecomputeRunningBalances(entries)
	assert.Nil(t, VerifyRunningBalances(1, entries))

	entries[1].Balance = decimal.NewFromInt(71)
	drift := VerifyRunningBalances(1, entries)
	require.NotNil(t, drift)
	assert.Equal(t, int64(2), drift.FirstBadEntryID)
	assert.True(t, drift.Expected.Equal(decimal.NewFromInt(70)))
	assert.True(t, drift.Stored.Equal(decimal.NewFromInt(71)))
}

func TestProvisionalBalance(t *testing.T) {
	first := entry(0, 5, "100", "")
	assert.True(t, ProvisionalBalance(nil, first).Equal(decimal.NewFromInt(100)))

	latest := entry(1, 5, "100", "")
	latest.Balance = decimal.NewFromInt(100)
	next := entry(0, 10, "", "30")
	assert.True(t, ProvisionalBalance(&latest, next).Equal(decimal.NewFromInt(70)))
}
