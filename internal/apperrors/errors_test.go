package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"wrapped validation", fmt.Errorf("%w: cash_in must not be negative", apperrors.ErrValidation), http.StatusBadRequest},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"contention inside app error", apperrors.NewAppError(500, "lock account", apperrors.ErrContention), http.StatusConflict},
		{"app error code", apperrors.NewAppError(http.StatusServiceUnavailable, "db down", nil), http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.StatusCode(tt.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := apperrors.NewAppError(500, "failed to recompute balances", apperrors.ErrConsistency)

	assert.ErrorIs(t, err, apperrors.ErrConsistency)
	assert.Equal(t, "failed to recompute balances: "+apperrors.ErrConsistency.Error(), err.Error())
	assert.False(t, apperrors.IsRetryable(err))
	assert.True(t, apperrors.IsRetryable(fmt.Errorf("create entry: %w", apperrors.ErrContention)))
}
