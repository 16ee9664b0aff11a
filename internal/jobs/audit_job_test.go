package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBalances struct {
	mock.Mock
}

func (m *mockBalances) RecomputeAccount(ctx context.Context, scope domain.Scope, accountID int64) (int, error) {
	args := m.Called(ctx, scope, accountID)
	return args.Int(0), args.Error(1)
}

func (m *mockBalances) AuditBalances(ctx context.Context, scope domain.Scope) ([]domain.AccountDrift, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountDrift), args.Error(1)
}

func TestAuditJob_RunReportsDrift(t *testing.T) {
	balances := new(mockBalances)
	drift := domain.AccountDrift{AccountID: 4, FirstBadEntryID: 9, Stored: decimal.NewFromInt(5), Expected: decimal.NewFromInt(3)}
	balances.On("AuditBalances", mock.Anything, domain.CountryScope()).Return([]domain.AccountDrift{drift}, nil).Once()

	drifts, err := NewAuditJob(balances, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.AccountDrift{drift}, drifts)
	balances.AssertExpectations(t)
	balances.AssertNotCalled(t, "RecomputeAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditJob_RunPropagatesError(t *testing.T) {
	balances := new(mockBalances)
	balances.On("AuditBalances", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := NewAuditJob(balances, nil).Run(context.Background())

	assert.EqualError(t, err, "db down")
}

func TestAuditJob_ScheduledRunRecoversPanic(t *testing.T) {
	balances := new(mockBalances)
	balances.On("AuditBalances", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil).Once()

	job := NewAuditJob(balances, nil)
	assert.NotPanics(t, job.runScheduled)
	balances.AssertExpectations(t)
}

func TestScheduler(t *testing.T) {
	job := NewAuditJob(new(mockBalances), nil)

	_, err := NewScheduler("every day", job, nil)
	assert.Error(t, err)

	s, err := NewScheduler("0 30 2 * * *", job, nil)
	require.NoError(t, err)
	assert.True(t, s.NextRun().IsZero())

	s.Start()
	next := s.NextRun()
	assert.Equal(t, 2, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.Equal(t, time.UTC, next.Location())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
