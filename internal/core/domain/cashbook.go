package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// VATRequirement flags whether an entry is subject to VAT.
type VATRequirement string

const (
	VATRequired    VATRequirement = "VAT_REQUIRED"
	VATNotRequired VATRequirement = "VAT_NOT_REQUIRED"
)

// Valid reports whether v is a known VAT flag.
func (v VATRequirement) Valid() bool {
	return v == VATRequired || v == VATNotRequired
}

// maxAmount bounds amounts to what numeric(14,2) can hold.
var maxAmount = decimal.New(1, 12)

// DateLayout is the wire and storage layout of transaction dates.
const DateLayout = "2006-01-02"

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CashbookEntry is one cash movement against one account.
//
// Exactly one of CashIn/CashOut is set. Balance is the running balance of the account
// after this entry, in (TransactionDate, EntryID) order, and is only ever written by the
// balance engine.
type CashbookEntry struct {
	EntryID         int64            `json:"entryID"`
	TransactionDate time.Time        `json:"transactionDate"`
	Quarter         Quarter          `json:"quarter"`
	HospitalID      *int64           `json:"hospitalID"`
	FacilityID      *int64           `json:"facilityID"`
	AccountID       int64            `json:"accountID"`
	Reference       string           `json:"reference"`
	VATRequirement  VATRequirement   `json:"vatRequirement"`
	Description     string           `json:"description"` // Nullable
	BudgetLineID    int64            `json:"budgetLineID"`
	ActivityID      int64            `json:"activityID"`
	CashIn          *decimal.Decimal `json:"cashIn"`
	CashOut         *decimal.Decimal `json:"cashOut"`
	Balance         decimal.Decimal  `json:"balance"`
	AuditFields
}

// SignedAmount is cash_in - cash_out, with absent sides counting as zero.
func (e CashbookEntry) SignedAmount() decimal.Decimal {
	amount := decimal.Zero
	if e.CashIn != nil {
		amount = amount.Add(*e.CashIn)
	}
	if e.CashOut != nil {
		amount = amount.Sub(*e.CashOut)
	}
	return amount
}

// Validate enforces the structural invariants of an entry about to be persisted:
// a transaction date, exactly one non-negative cash side, at least one organizational
// scope, and the required classification references.
func (e CashbookEntry) Validate() error {
	var problems []string
	if e.TransactionDate.IsZero() {
		problems = append(problems, "transaction_date is required")
	}
	problems = append(problems, cashProblems(e.CashIn, e.CashOut)...)
	if e.FacilityID == nil && e.HospitalID == nil {
		problems = append(problems, "either hospital_id or facility_id must be provided")
	}
	if e.AccountID <= 0 {
		problems = append(problems, "account_id is required")
	}
	if e.BudgetLineID <= 0 {
		problems = append(problems, "budget_line_id is required")
	}
	if e.ActivityID <= 0 {
		problems = append(problems, "activity_id is required")
	}
	if !e.VATRequirement.Valid() {
		problems = append(problems, fmt.Sprintf("unknown vat_requirement %q", e.VATRequirement))
	}
	if e.Quarter != "" {
		if _, err := ParseQuarter(string(e.Quarter)); err != nil {
			problems = append(problems, fmt.Sprintf("unknown quarter %q", e.Quarter))
		}
	}
	if len(e.Reference) > 40 {
		problems = append(problems, "reference must be at most 40 characters")
	}
	return validationError(problems)
}

func cashProblems(cashIn, cashOut *decimal.Decimal) []string {
	var problems []string
	if (cashIn == nil) == (cashOut == nil) {
		problems = append(problems, "provide exactly one of cash_in or cash_out")
	}
	problems = append(problems, amountProblems("cash_in", cashIn)...)
	problems = append(problems, amountProblems("cash_out", cashOut)...)
	return problems
}

func amountProblems(field string, amount *decimal.Decimal) []string {
	if amount == nil {
		return nil
	}
	var problems []string
	if amount.IsNegative() {
		problems = append(problems, field+" must not be negative")
	}
	if !amount.Equal(amount.Round(2)) {
		problems = append(problems, field+" must have at most 2 decimal places")
	}
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		problems = append(problems, field+" is too large")
	}
	return problems
}

func validationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(problems, "; "))
}

// CashbookPatch is a partial update of an entry. Every field is matched explicitly;
// Reference and Quarter are absent on purpose: the reference is never regenerated and
// the quarter follows the transaction date.
type CashbookPatch struct {
	TransactionDate Optional[time.Time]
	HospitalID      Optional[*int64]
	FacilityID      Optional[*int64]
	AccountID       Optional[int64]
	VATRequirement  Optional[VATRequirement]
	Description     Optional[string]
	BudgetLineID    Optional[int64]
	ActivityID      Optional[int64]
	CashIn          Optional[*decimal.Decimal]
	CashOut         Optional[*decimal.Decimal]
}

// PatchEffect summarises what an applied patch changed that matters for balances.
type PatchEffect struct {
	PreviousAccountID int64
	AccountChanged    bool
	DateChanged       bool
	AmountChanged     bool
}

// NeedsRecompute reports whether running balances may have moved.
func (p PatchEffect) NeedsRecompute() bool {
	return p.AccountChanged || p.DateChanged || p.AmountChanged
}

// Validate checks the supplied fields on their own, before they touch an entry.
func (p CashbookPatch) Validate() error {
	var problems []string
	if p.TransactionDate.Set && p.TransactionDate.Value.IsZero() {
		problems = append(problems, "transaction_date cannot be cleared")
	}
	if p.CashIn.Set && p.CashOut.Set && p.CashIn.Value != nil && p.CashOut.Value != nil {
		problems = append(problems, "provide exactly one of cash_in or cash_out when updating")
	}
	if p.CashIn.Set {
		problems = append(problems, amountProblems("cash_in", p.CashIn.Value)...)
	}
	if p.CashOut.Set {
		problems = append(problems, amountProblems("cash_out", p.CashOut.Value)...)
	}
	if p.AccountID.Set && p.AccountID.Value <= 0 {
		problems = append(problems, "account_id must be positive")
	}
	if p.BudgetLineID.Set && p.BudgetLineID.Value <= 0 {
		problems = append(problems, "budget_line_id must be positive")
	}
	if p.ActivityID.Set && p.ActivityID.Value <= 0 {
		problems = append(problems, "activity_id must be positive")
	}
	if p.VATRequirement.Set && !p.VATRequirement.Value.Valid() {
		problems = append(problems, fmt.Sprintf("unknown vat_requirement %q", p.VATRequirement.Value))
	}
	return validationError(problems)
}

// Apply writes the supplied fields onto e. Setting one cash side to a value without
// mentioning the other moves the entry to that side.
func (p CashbookPatch) Apply(e *CashbookEntry) PatchEffect {
	effect := PatchEffect{PreviousAccountID: e.AccountID}

	if p.TransactionDate.Set {
		d := DateOnly(p.TransactionDate.Value)
		effect.DateChanged = !d.Equal(e.TransactionDate)
		e.TransactionDate = d
	}
	if p.HospitalID.Set {
		e.HospitalID = p.HospitalID.Value
	}
	if p.FacilityID.Set {
		e.FacilityID = p.FacilityID.Value
	}
	if p.AccountID.Set {
		effect.AccountChanged = p.AccountID.Value != e.AccountID
		e.AccountID = p.AccountID.Value
	}
	if p.VATRequirement.Set {
		e.VATRequirement = p.VATRequirement.Value
	}
	if p.Description.Set {
		e.Description = p.Description.Value
	}
	if p.BudgetLineID.Set {
		e.BudgetLineID = p.BudgetLineID.Value
	}
	if p.ActivityID.Set {
		e.ActivityID = p.ActivityID.Value
	}

	before := e.SignedAmount()
	if p.CashIn.Set {
		e.CashIn = p.CashIn.Value
		if p.CashIn.Value != nil && !p.CashOut.Set {
			e.CashOut = nil
		}
	}
	if p.CashOut.Set {
		e.CashOut = p.CashOut.Value
		if p.CashOut.Value != nil && !p.CashIn.Set {
			e.CashIn = nil
		}
	}
	effect.AmountChanged = !before.Equal(e.SignedAmount())

	return effect
}

// EntryCursor marks the last row of a page in (date desc, id desc) order.
type EntryCursor struct {
	TransactionDate time.Time
	EntryID         int64
}

// EntryFilter narrows entry listings. Zero values mean "no filter"; Limit <= 0 means no limit.
type EntryFilter struct {
	AccountID  *int64
	FacilityID *int64
	HospitalID *int64
	Quarter    *Quarter
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	After      *EntryCursor
}

// EntryPage is one page of a listing with an optional cursor to the next page.
type EntryPage struct {
	Entries []CashbookEntry
	Next    *EntryCursor
}

// AccountDrift reports an account whose stored running balances differ from a fresh recomputation.
type AccountDrift struct {
	AccountID       int64           `json:"accountID"`
	FirstBadEntryID int64           `json:"firstBadEntryID"`
	Stored          decimal.Decimal `json:"stored"`
	Expected        decimal.Decimal `json:"expected"`
}

// BalanceUpdate is a recomputed running balance for one entry.
type BalanceUpdate struct {
	EntryID int64
	Balance decimal.Decimal
}
