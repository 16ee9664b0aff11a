package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/SscSPs/facility_finance_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeScope checks that a row owned by facilityID/hospitalID is visible to scope.
func (s *BaseService) AuthorizeScope(ctx context.Context, scope domain.Scope, facilityID, hospitalID *int64) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if !scope.Covers(facilityID, hospitalID) {
		s.GetLogger(ctx).Warn("Scope check failed",
			slog.String("access_level", string(scope.Level)),
			slog.Int64("scope_id", scope.ID))
		return fmt.Errorf("%w: record is outside the caller's %s scope", apperrors.ErrForbidden, scope.Level)
	}
	return nil
}

// claimOwnership fills in the caller's own facility/hospital on a new record and rejects
// a record that names a different one.
func claimOwnership(scope domain.Scope, facilityID, hospitalID **int64) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	switch scope.Level {
	case domain.LevelFacility:
		if *facilityID == nil {
			id := scope.ID
			*facilityID = &id
		} else if **facilityID != scope.ID {
			return fmt.Errorf("%w: facility_id %d does not match the caller's facility", apperrors.ErrForbidden, **facilityID)
		}
	case domain.LevelHospital:
		if *hospitalID == nil {
			id := scope.ID
			*hospitalID = &id
		} else if **hospitalID != scope.ID {
			return fmt.Errorf("%w: hospital_id %d does not match the caller's hospital", apperrors.ErrForbidden, **hospitalID)
		}
	}
	return nil
}

// requireCountry rejects every scope except COUNTRY.
func requireCountry(scope domain.Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if !scope.IsCountry() {
		return fmt.Errorf("%w: operation requires COUNTRY access", apperrors.ErrForbidden)
	}
	return nil
}
