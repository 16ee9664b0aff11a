package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountKind is the kind of cash holding point.
type AccountKind string

const (
	AccountBank        AccountKind = "BANK"
	AccountMobileMoney AccountKind = "MOBILE_MONEY"
	AccountCash        AccountKind = "CASH"
)

// Valid reports whether k is a known account kind.
func (k AccountKind) Valid() bool {
	switch k {
	case AccountBank, AccountMobileMoney, AccountCash:
		return true
	}
	return false
}

// Account is a cash holding point owned by a facility or a hospital.
// Its balance is never stored here; it is the running balance of its latest cashbook entry.
type Account struct {
	AccountID      int64       `json:"accountID"`
	Name           string      `json:"name"`
	Kind           AccountKind `json:"kind"`
	BankName       string      `json:"bankName"`       // Nullable
	AccountNumber  string      `json:"accountNumber"`  // Nullable
	MobileProvider string      `json:"mobileProvider"` // Nullable
	FacilityID     *int64      `json:"facilityID"`
	HospitalID     *int64      `json:"hospitalID"`
	AuditFields
}

// Validate checks the structural rules of an account.
func (a Account) Validate() error {
	var problems []string
	if strings.TrimSpace(a.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !a.Kind.Valid() {
		problems = append(problems, fmt.Sprintf("unknown account kind %q", a.Kind))
	}
	if a.FacilityID == nil && a.HospitalID == nil {
		problems = append(problems, "either facility_id or hospital_id must be provided")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// AccountWithBalance pairs an account with its derived current balance.
type AccountWithBalance struct {
	Account
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// AccountPatch is a partial update of the descriptive account fields.
type AccountPatch struct {
	Name           Optional[string]
	Kind           Optional[AccountKind]
	BankName       Optional[string]
	AccountNumber  Optional[string]
	MobileProvider Optional[string]
}

// Apply writes every supplied field onto acc.
func (p AccountPatch) Apply(acc *Account) {
	if p.Name.Set {
		acc.Name = p.Name.Value
	}
	if p.Kind.Set {
		acc.Kind = p.Kind.Value
	}
	if p.BankName.Set {
		acc.BankName = p.BankName.Value
	}
	if p.AccountNumber.Set {
		acc.AccountNumber = p.AccountNumber.Value
	}
	if p.MobileProvider.Set {
		acc.MobileProvider = p.MobileProvider.Value
	}
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	NameContains string
	FacilityID   *int64
	HospitalID   *int64
}
