package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashbookEntryMapping_NullableColumns(t *testing.T) {
	in := decimal.RequireFromString("12.50")
	facility := int64(3)
	d := domain.CashbookEntry{
		EntryID:         9,
		TransactionDate: time.Date(2024, 1, 5, 13, 0, 0, 0, time.UTC),
		FacilityID:      &facility,
		AccountID:       1,
		VATRequirement:  domain.VATRequired,
		CashIn:          &in,
		Balance:         in,
	}

	m := ToModelCashbookEntry(d)
	assert.True(t, m.CashIn.Valid)
	assert.False(t, m.CashOut.Valid)
	assert.Nil(t, m.Description, "empty description is stored as NULL")
	assert.Nil(t, m.HospitalID)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), m.TransactionDate)

	back := ToDomainCashbookEntry(m)
	require.NotNil(t, back.CashIn)
	assert.True(t, back.CashIn.Equal(in))
	assert.Nil(t, back.CashOut)
	assert.Equal(t, "", back.Description)
	assert.Equal(t, domain.VATRequired, back.VATRequirement)
}

func TestAccountMapping_OptionalMetadata(t *testing.T) {
	hospital := int64(8)
	m := ToModelAccount(domain.Account{Name: "Main", Kind: domain.AccountBank, BankName: "BK", HospitalID: &hospital})

	require.NotNil(t, m.BankName)
	assert.Equal(t, "BK", *m.BankName)
	assert.Nil(t, m.MobileProvider)
	assert.Equal(t, "BANK", m.AccountType)

	d := ToDomainAccount(m)
	assert.Equal(t, domain.AccountBank, d.Kind)
	assert.Equal(t, "", d.MobileProvider)
}
