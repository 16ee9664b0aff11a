package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashbookEntry is a row of the cashbook_entries table.
type CashbookEntry struct {
	EntryID         int64               `db:"entry_id"`
	TransactionDate time.Time           `db:"transaction_date"`
	Quarter         string              `db:"quarter"`
	HospitalID      *int64              `db:"hospital_id"`
	FacilityID      *int64              `db:"facility_id"`
	AccountID       int64               `db:"account_id"`
	Reference       string              `db:"reference"`
	VATRequirement  string              `db:"vat_requirement"`
	Description     *string             `db:"description"` // Nullable
	BudgetLineID    int64               `db:"budget_line_id"`
	ActivityID      int64               `db:"activity_id"`
	CashIn          decimal.NullDecimal `db:"cash_in"`
	CashOut         decimal.NullDecimal `db:"cash_out"`
	Balance         decimal.Decimal     `db:"balance"`
	AuditFields
}
