package query

import (
	"testing"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestEntryFilter_Postgres(t *testing.T) {
	account := int64(1)
	q := domain.Q1
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sql, args := EntryFilter(Postgres, domain.EntryFilter{
		AccountID: &account,
		Quarter:   &q,
		DateFrom:  &from,
		Limit:     11,
		After:     &domain.EntryCursor{TransactionDate: from, EntryID: 7},
	})

	assert.Equal(t,
		" WHERE account_id = $1 AND quarter = $2 AND transaction_date >= $3 AND (transaction_date, entry_id) < ($4, $5)"+
			" ORDER BY transaction_date DESC, entry_id DESC LIMIT $6",
		sql)
	assert.Equal(t, []any{int64(1), "Q1", from, from, int64(7), 11}, args)
}

func TestEntryFilter_SQLiteDates(t *testing.T) {
	to := time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC)
	sql, args := EntryFilter(SQLite, domain.EntryFilter{DateTo: &to})

	assert.Equal(t, " WHERE transaction_date <= ? ORDER BY transaction_date DESC, entry_id DESC", sql)
	assert.Equal(t, []any{"2024-03-31"}, args)
}

func TestEntryFilter_Empty(t *testing.T) {
	sql, args := EntryFilter(SQLite, domain.EntryFilter{})
	assert.Equal(t, " ORDER BY transaction_date DESC, entry_id DESC", sql)
	assert.Empty(t, args)
}

func TestAccountFilter(t *testing.T) {
	facility := int64(3)
	sql, args := AccountFilter(Postgres, "a", domain.AccountFilter{FacilityID: &facility, NameContains: " Main "})

	assert.Equal(t, " WHERE a.facility_id = $1 AND LOWER(a.name) LIKE $2", sql)
	assert.Equal(t, []any{int64(3), "%main%"}, args)
}
