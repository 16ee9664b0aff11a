package domain

import (
	"fmt"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
)

// AccessLevel is the organizational tier a caller is bound to.
type AccessLevel string

const (
	LevelCountry  AccessLevel = "COUNTRY"
	LevelProvince AccessLevel = "PROVINCE"
	LevelDistrict AccessLevel = "DISTRICT"
	LevelHospital AccessLevel = "HOSPITAL"
	LevelFacility AccessLevel = "FACILITY"
)

// Scope is the caller capability passed into every ledger operation.
// ID is the id of the country, province, district, hospital or facility the caller is assigned to.
//
// COUNTRY, PROVINCE and DISTRICT scopes are not narrowed here: the geographic hierarchy
// belongs to the organizational CRUD layer. HOSPITAL and FACILITY scopes restrict rows by
// hospital_id and facility_id respectively.
type Scope struct {
	Level AccessLevel `json:"level"`
	ID    int64       `json:"id"`
}

// CountryScope is an unrestricted scope, used by administrative commands.
func CountryScope() Scope {
	return Scope{Level: LevelCountry}
}

// Validate checks the scope is usable.
func (s Scope) Validate() error {
	switch s.Level {
	case LevelCountry, LevelProvince, LevelDistrict:
		return nil
	case LevelHospital, LevelFacility:
		if s.ID <= 0 {
			return fmt.Errorf("%w: %s scope has no assigned id", apperrors.ErrForbidden, s.Level)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown access level %q", apperrors.ErrForbidden, s.Level)
}

// IsCountry reports whether the scope sees everything.
func (s Scope) IsCountry() bool {
	return s.Level == LevelCountry
}

// Covers reports whether a row owned by the given facility/hospital is visible to the scope.
func (s Scope) Covers(facilityID, hospitalID *int64) bool {
	switch s.Level {
	case LevelFacility:
		return facilityID != nil && *facilityID == s.ID
	case LevelHospital:
		return hospitalID != nil && *hospitalID == s.ID
	case LevelCountry, LevelProvince, LevelDistrict:
		return true
	}
	return false
}

// FacilityFilter returns the facility id every query must be narrowed to, if any.
func (s Scope) FacilityFilter() *int64 {
	if s.Level == LevelFacility {
		id := s.ID
		return &id
	}
	return nil
}

// HospitalFilter returns the hospital id every query must be narrowed to, if any.
func (s Scope) HospitalFilter() *int64 {
	if s.Level == LevelHospital {
		id := s.ID
		return &id
	}
	return nil
}
