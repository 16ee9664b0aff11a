package mapping

import (
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/SscSPs/facility_finance_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Name:           d.Name,
		AccountType:    string(d.Kind),
		BankName:       nullString(d.BankName),
		AccountNumber:  nullString(d.AccountNumber),
		MobileProvider: nullString(d.MobileProvider),
		FacilityID:     d.FacilityID,
		HospitalID:     d.HospitalID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Name:           m.Name,
		Kind:           domain.AccountKind(m.AccountType),
		BankName:       derefString(m.BankName),
		AccountNumber:  derefString(m.AccountNumber),
		MobileProvider: derefString(m.MobileProvider),
		FacilityID:     m.FacilityID,
		HospitalID:     m.HospitalID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
