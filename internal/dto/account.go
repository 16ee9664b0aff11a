package dto

import (
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=255"`
	Type           domain.AccountKind `json:"type" binding:"required,oneof=BANK MOBILE_MONEY CASH"`
	BankName       string             `json:"bank_name" binding:"max=255"`
	AccountNumber  string             `json:"account_number" binding:"max=100"`
	MobileProvider string             `json:"mobile_provider" binding:"max=100"`
	FacilityID     *int64             `json:"facility_id" binding:"omitempty,gt=0"`
	HospitalID     *int64             `json:"hospital_id" binding:"omitempty,gt=0"`
}

// ToDomain converts the request into an unsaved account.
func (r CreateAccountRequest) ToDomain() domain.Account {
	return domain.Account{
		Name:           r.Name,
		Kind:           r.Type,
		BankName:       r.BankName,
		AccountNumber:  r.AccountNumber,
		MobileProvider: r.MobileProvider,
		FacilityID:     r.FacilityID,
		HospitalID:     r.HospitalID,
	}
}

// UpdateAccountRequest defines the descriptive fields allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name           *string             `json:"name" binding:"omitempty,max=255"`
	Type           *domain.AccountKind `json:"type" binding:"omitempty,oneof=BANK MOBILE_MONEY CASH"`
	BankName       *string             `json:"bank_name" binding:"omitempty,max=255"`
	AccountNumber  *string             `json:"account_number" binding:"omitempty,max=100"`
	MobileProvider *string             `json:"mobile_provider" binding:"omitempty,max=100"`
}

// ToDomain converts the request into an account patch.
func (r UpdateAccountRequest) ToDomain() domain.AccountPatch {
	var p domain.AccountPatch
	if r.Name != nil {
		p.Name = domain.Some(*r.Name)
	}
	if r.Type != nil {
		p.Kind = domain.Some(*r.Type)
	}
	if r.BankName != nil {
		p.BankName = domain.Some(*r.BankName)
	}
	if r.AccountNumber != nil {
		p.AccountNumber = domain.Some(*r.AccountNumber)
	}
	if r.MobileProvider != nil {
		p.MobileProvider = domain.Some(*r.MobileProvider)
	}
	return p
}

// ListAccountsParams are the query parameters of an account listing.
type ListAccountsParams struct {
	Q          string `form:"q"`
	FacilityID *int64 `form:"facility_id" binding:"omitempty,gt=0"`
	HospitalID *int64 `form:"hospital_id" binding:"omitempty,gt=0"`
}

// ToDomain converts the parameters into an account filter.
func (p ListAccountsParams) ToDomain() domain.AccountFilter {
	return domain.AccountFilter{NameContains: p.Q, FacilityID: p.FacilityID, HospitalID: p.HospitalID}
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Type           domain.AccountKind `json:"type"`
	BankName       *string            `json:"bank_name"`
	AccountNumber  *string            `json:"account_number"`
	MobileProvider *string            `json:"mobile_provider"`
	FacilityID     *int64             `json:"facility_id"`
	HospitalID     *int64             `json:"hospital_id"`
	CurrentBalance *decimal.Decimal   `json:"current_balance,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc domain.Account) AccountResponse {
	return AccountResponse{
		ID:             acc.AccountID,
		Name:           acc.Name,
		Type:           acc.Kind,
		BankName:       nullable(acc.BankName),
		AccountNumber:  nullable(acc.AccountNumber),
		MobileProvider: nullable(acc.MobileProvider),
		FacilityID:     acc.FacilityID,
		HospitalID:     acc.HospitalID,
		CreatedAt:      acc.CreatedAt,
		UpdatedAt:      acc.LastUpdatedAt,
	}
}

// ToAccountWithBalanceResponse includes the current balance.
func ToAccountWithBalanceResponse(acc domain.AccountWithBalance) AccountResponse {
	resp := ToAccountResponse(acc.Account)
	balance := acc.CurrentBalance
	resp.CurrentBalance = &balance
	return resp
}

// ToListAccountResponse converts a slice of accounts to a slice of responses.
func ToListAccountResponse(accounts []domain.AccountWithBalance) []AccountResponse {
	list := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		list[i] = ToAccountWithBalanceResponse(acc)
	}
	return list
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
