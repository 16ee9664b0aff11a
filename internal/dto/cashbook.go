package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/SscSPs/facility_finance_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// CreateCashbookRequest defines the data needed to record a cashbook entry.
// Quarter and reference are assigned by the ledger when omitted.
type CreateCashbookRequest struct {
	TransactionDate Date                  `json:"transaction_date"`
	Quarter         *string               `json:"quarter" binding:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	Reference       *string               `json:"reference" binding:"omitempty,max=40"`
	HospitalID      *int64                `json:"hospital_id" binding:"omitempty,gt=0"`
	FacilityID      *int64                `json:"facility_id" binding:"omitempty,gt=0"`
	AccountID       int64                 `json:"account_id" binding:"required,gt=0"`
	VATRequirement  domain.VATRequirement `json:"vat_requirement" binding:"required,oneof=VAT_REQUIRED VAT_NOT_REQUIRED"`
	Description     *string               `json:"description"`
	BudgetLineID    int64                 `json:"budget_line_id" binding:"required,gt=0"`
	ActivityID      int64                 `json:"activity_id" binding:"required,gt=0"`
	CashIn          *decimal.Decimal      `json:"cash_in"`
	CashOut         *decimal.Decimal      `json:"cash_out"`
}

// ToDomain converts the request into a draft entry.
func (r CreateCashbookRequest) ToDomain() domain.CashbookEntry {
	e := domain.CashbookEntry{
		TransactionDate: r.TransactionDate.Time(),
		HospitalID:      r.HospitalID,
		FacilityID:      r.FacilityID,
		AccountID:       r.AccountID,
		VATRequirement:  r.VATRequirement,
		BudgetLineID:    r.BudgetLineID,
		ActivityID:      r.ActivityID,
		CashIn:          r.CashIn,
		CashOut:         r.CashOut,
	}
	if r.Quarter != nil {
		e.Quarter = domain.Quarter(*r.Quarter)
	}
	if r.Reference != nil {
		e.Reference = strings.TrimSpace(*r.Reference)
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	return e
}

// UpdateCashbookRequest is a partial update. Absent fields are left unchanged; null clears
// the nullable ones.
type UpdateCashbookRequest struct {
	TransactionDate Optional[Date]                  `json:"transaction_date"`
	HospitalID      Optional[int64]                 `json:"hospital_id"`
	FacilityID      Optional[int64]                 `json:"facility_id"`
	AccountID       Optional[int64]                 `json:"account_id"`
	VATRequirement  Optional[domain.VATRequirement] `json:"vat_requirement"`
	Description     Optional[string]                `json:"description"`
	BudgetLineID    Optional[int64]                 `json:"budget_line_id"`
	ActivityID      Optional[int64]                 `json:"activity_id"`
	CashIn          Optional[decimal.Decimal]       `json:"cash_in"`
	CashOut         Optional[decimal.Decimal]       `json:"cash_out"`
}

// ToDomain converts the request into a patch. Null is rejected for fields that cannot be
// cleared.
func (r UpdateCashbookRequest) ToDomain() (domain.CashbookPatch, error) {
	var p domain.CashbookPatch
	var nulls []string
	required := func(set, null bool, name string) bool {
		if set && null {
			nulls = append(nulls, name)
		}
		return set && !null
	}

	if required(r.TransactionDate.Set, r.TransactionDate.Null, "transaction_date") {
		p.TransactionDate = domain.Some(r.TransactionDate.Value.Time())
	}
	if required(r.AccountID.Set, r.AccountID.Null, "account_id") {
		p.AccountID = domain.Some(r.AccountID.Value)
	}
	if required(r.VATRequirement.Set, r.VATRequirement.Null, "vat_requirement") {
		p.VATRequirement = domain.Some(r.VATRequirement.Value)
	}
	if required(r.BudgetLineID.Set, r.BudgetLineID.Null, "budget_line_id") {
		p.BudgetLineID = domain.Some(r.BudgetLineID.Value)
	}
	if required(r.ActivityID.Set, r.ActivityID.Null, "activity_id") {
		p.ActivityID = domain.Some(r.ActivityID.Value)
	}
	if len(nulls) > 0 {
		return p, fmt.Errorf("%w: %s cannot be null", apperrors.ErrValidation, strings.Join(nulls, ", "))
	}

	if r.HospitalID.Set {
		p.HospitalID = domain.Some(r.HospitalID.Ptr())
	}
	if r.FacilityID.Set {
		p.FacilityID = domain.Some(r.FacilityID.Ptr())
	}
	if r.Description.Set {
		p.Description = domain.Some(r.Description.Value)
	}
	if r.CashIn.Set {
		p.CashIn = domain.Some(r.CashIn.Ptr())
	}
	if r.CashOut.Set {
		p.CashOut = domain.Some(r.CashOut.Ptr())
	}
	return p, nil
}

// ListEntriesParams are the query parameters of an entry listing.
type ListEntriesParams struct {
	AccountID  *int64     `form:"account_id" binding:"omitempty,gt=0"`
	FacilityID *int64     `form:"facility_id" binding:"omitempty,gt=0"`
	HospitalID *int64     `form:"hospital_id" binding:"omitempty,gt=0"`
	Quarter    *string    `form:"quarter" binding:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02" time_utc:"1"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02" time_utc:"1"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken  string     `form:"next_token"`
}

// ToDomain converts the parameters into an entry filter.
func (p ListEntriesParams) ToDomain() (domain.EntryFilter, error) {
	f := domain.EntryFilter{
		AccountID:  p.AccountID,
		FacilityID: p.FacilityID,
		HospitalID: p.HospitalID,
		DateFrom:   p.DateFrom,
		DateTo:     p.DateTo,
		Limit:      p.Limit,
	}
	if p.Quarter != nil {
		q := domain.Quarter(*p.Quarter)
		f.Quarter = &q
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, fmt.Errorf("%w: date_from must not be after date_to", apperrors.ErrValidation)
	}
	if p.NextToken != "" {
		cursor, err := pagination.DecodeEntryCursor(p.NextToken)
		if err != nil {
			return f, err
		}
		f.After = cursor
	}
	return f, nil
}

// CashbookEntryResponse defines the data returned for a cashbook entry. Amounts are
// decimal strings with two places.
type CashbookEntryResponse struct {
	ID              int64                 `json:"id"`
	TransactionDate Date                  `json:"transaction_date"`
	Quarter         domain.Quarter        `json:"quarter"`
	HospitalID      *int64                `json:"hospital_id"`
	FacilityID      *int64                `json:"facility_id"`
	AccountID       int64                 `json:"account_id"`
	Reference       string                `json:"reference"`
	VATRequirement  domain.VATRequirement `json:"vat_requirement"`
	Description     *string               `json:"description"`
	BudgetLineID    int64                 `json:"budget_line_id"`
	ActivityID      int64                 `json:"activity_id"`
	CashIn          *string               `json:"cash_in"`
	CashOut         *string               `json:"cash_out"`
	Balance         string                `json:"balance"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ToCashbookEntryResponse converts a domain entry into its response.
func ToCashbookEntryResponse(e domain.CashbookEntry) CashbookEntryResponse {
	return CashbookEntryResponse{
		ID:              e.EntryID,
		TransactionDate: Date(e.TransactionDate),
		Quarter:         e.Quarter,
		HospitalID:      e.HospitalID,
		FacilityID:      e.FacilityID,
		AccountID:       e.AccountID,
		Reference:       e.Reference,
		VATRequirement:  e.VATRequirement,
		Description:     nullable(e.Description),
		BudgetLineID:    e.BudgetLineID,
		ActivityID:      e.ActivityID,
		CashIn:          money(e.CashIn),
		CashOut:         money(e.CashOut),
		Balance:         e.Balance.StringFixed(2),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.LastUpdatedAt,
	}
}

// ListEntriesResponse is one page of entries.
type ListEntriesResponse struct {
	Entries   []CashbookEntryResponse `json:"entries"`
	NextToken string                  `json:"next_token,omitempty"`
}

// ToListEntriesResponse converts a page, encoding its cursor.
func ToListEntriesResponse(page domain.EntryPage) ListEntriesResponse {
	resp := ListEntriesResponse{Entries: make([]CashbookEntryResponse, len(page.Entries))}
	for i, e := range page.Entries {
		resp.Entries[i] = ToCashbookEntryResponse(e)
	}
	if page.Next != nil {
		resp.NextToken = pagination.EncodeEntryCursor(*page.Next)
	}
	return resp
}

// RecomputeResponse reports a balance recomputation.
type RecomputeResponse struct {
	AccountID int64 `json:"account_id"`
	Rewritten int   `json:"rewritten"`
}

// AccountDriftResponse describes one account whose stored balances disagree with a
// fresh recomputation.
type AccountDriftResponse struct {
	AccountID       int64  `json:"account_id"`
	FirstBadEntryID int64  `json:"first_bad_entry_id"`
	Stored          string `json:"stored"`
	Expected        string `json:"expected"`
}

// AuditResponse is the result of a balance audit.
type AuditResponse struct {
	Drifts []AccountDriftResponse `json:"drifts"`
}

// ToAuditResponse converts drifts into their response.
func ToAuditResponse(drifts []domain.AccountDrift) AuditResponse {
	resp := AuditResponse{Drifts: make([]AccountDriftResponse, len(drifts))}
	for i, d := range drifts {
		resp.Drifts[i] = AccountDriftResponse{
			AccountID:       d.AccountID,
			FirstBadEntryID: d.FirstBadEntryID,
			Stored:          d.Stored.StringFixed(2),
			Expected:        d.Expected.StringFixed(2),
		}
	}
	return resp
}

func money(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
