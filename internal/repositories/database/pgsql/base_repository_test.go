package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, apperrors.ErrContention},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, apperrors.ErrContention},
		{"deadlock", fmt.Errorf("lock accounts: %w", &pgconn.PgError{Code: "40P01"}), apperrors.ErrContention},
		{"unique violation", &pgconn.PgError{Code: "23505", Detail: "Key (reference)=(X) already exists."}, apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperrors.ErrValidation},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "cashbook_cash_in_xor_cash_out"}, apperrors.ErrValidation},
		{"not null", &pgconn.PgError{Code: "23502"}, apperrors.ErrValidation},
		{"deadline", context.DeadlineExceeded, apperrors.ErrContention},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tt.err, "insert entry"), tt.want)
		})
	}
}

func TestMapPgError_Other(t *testing.T) {
	assert.NoError(t, mapPgError(nil, "noop"))

	err := mapPgError(errors.New("conn closed"), "list entries")
	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "list entries: conn closed", err.Error())

	dup := mapPgError(&pgconn.PgError{Code: "23505", Detail: "Key (reference)=(X) already exists."}, "insert entry")
	assert.Contains(t, dup.Error(), "Key (reference)=(X) already exists.")
}
