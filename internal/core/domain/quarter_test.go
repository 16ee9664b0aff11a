package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFiscalCalendar_QuarterOf_JanuaryStart(t *testing.T) {
	cal := domain.DefaultFiscalCalendar()

	tests := []struct {
		name string
		d    time.Time
		want domain.Quarter
	}{
		{"mid february", date(2024, time.February, 15), domain.Q1},
		{"first of january", date(2024, time.January, 1), domain.Q1},
		{"end of march", date(2024, time.March, 31), domain.Q1},
		{"april", date(2024, time.April, 1), domain.Q2},
		{"june", date(2024, time.June, 30), domain.Q2},
		{"july", date(2024, time.July, 1), domain.Q3},
		{"september", date(2024, time.September, 30), domain.Q3},
		{"first of november", date(2024, time.November, 1), domain.Q4},
		{"december", date(2024, time.December, 31), domain.Q4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.QuarterOf(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFiscalCalendar_QuarterOf_OctoberStart(t *testing.T) {
	cal, err := domain.NewFiscalCalendar(10)
	require.NoError(t, err)

	cases := map[time.Month]domain.Quarter{
		time.October:   domain.Q1,
		time.December:  domain.Q1,
		time.January:   domain.Q2,
		time.March:     domain.Q2,
		time.April:     domain.Q3,
		time.June:      domain.Q3,
		time.July:      domain.Q4,
		time.September: domain.Q4,
	}
	for month, want := range cases {
		got, err := cal.QuarterOf(date(2025, month, 10))
		require.NoError(t, err)
		assert.Equal(t, want, got, "month %s", month)
	}
}

func TestFiscalCalendar_QuarterOf_MissingDate(t *testing.T) {
	_, err := domain.DefaultFiscalCalendar().QuarterOf(time.Time{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewFiscalCalendar_RejectsBadMonth(t *testing.T) {
	for _, m := range []int{0, 13, -1} {
		_, err := domain.NewFiscalCalendar(m)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestParseQuarter(t *testing.T) {
	q, err := domain.ParseQuarter("Q3")
	require.NoError(t, err)
	assert.Equal(t, domain.Q3, q)

	_, err = domain.ParseQuarter("Q5")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
