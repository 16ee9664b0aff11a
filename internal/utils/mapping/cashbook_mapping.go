package mapping

import (
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/SscSPs/facility_finance_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelCashbookEntry converts a domain CashbookEntry to a model CashbookEntry
func ToModelCashbookEntry(d domain.CashbookEntry) models.CashbookEntry {
	return models.CashbookEntry{
		EntryID:         d.EntryID,
		TransactionDate: domain.DateOnly(d.TransactionDate),
		Quarter:         string(d.Quarter),
		HospitalID:      d.HospitalID,
		FacilityID:      d.FacilityID,
		AccountID:       d.AccountID,
		Reference:       d.Reference,
		VATRequirement:  string(d.VATRequirement),
		Description:     nullString(d.Description),
		BudgetLineID:    d.BudgetLineID,
		ActivityID:      d.ActivityID,
		CashIn:          toNullDecimal(d.CashIn),
		CashOut:         toNullDecimal(d.CashOut),
		Balance:         d.Balance,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashbookEntry converts a model CashbookEntry to a domain CashbookEntry
func ToDomainCashbookEntry(m models.CashbookEntry) domain.CashbookEntry {
	return domain.CashbookEntry{
		EntryID:         m.EntryID,
		TransactionDate: domain.DateOnly(m.TransactionDate),
		Quarter:         domain.Quarter(m.Quarter),
		HospitalID:      m.HospitalID,
		FacilityID:      m.FacilityID,
		AccountID:       m.AccountID,
		Reference:       m.Reference,
		VATRequirement:  domain.VATRequirement(m.VATRequirement),
		Description:     derefString(m.Description),
		BudgetLineID:    m.BudgetLineID,
		ActivityID:      m.ActivityID,
		CashIn:          fromNullDecimal(m.CashIn),
		CashOut:         fromNullDecimal(m.CashOut),
		Balance:         m.Balance,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCashbookEntrySlice converts a slice of model entries to domain entries
func ToDomainCashbookEntrySlice(ms []models.CashbookEntry) []domain.CashbookEntry {
	ds := make([]domain.CashbookEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCashbookEntry(m)
	}
	return ds
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
