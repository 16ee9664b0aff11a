package models

// Account is a row of the accounts table.
type Account struct {
	AccountID      int64   `db:"account_id"`
	Name           string  `db:"name"`
	AccountType    string  `db:"account_type"`
	BankName       *string `db:"bank_name"`       // Nullable
	AccountNumber  *string `db:"account_number"`  // Nullable
	MobileProvider *string `db:"mobile_provider"` // Nullable
	FacilityID     *int64  `db:"facility_id"`
	HospitalID     *int64  `db:"hospital_id"`
	AuditFields
}
