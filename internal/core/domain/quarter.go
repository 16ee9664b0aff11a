package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
)

// Quarter is a fiscal-quarter label.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

var quarters = [4]Quarter{Q1, Q2, Q3, Q4}

// ParseQuarter validates a quarter label.
func ParseQuarter(s string) (Quarter, error) {
	for _, q := range quarters {
		if string(q) == s {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: unknown quarter %q", apperrors.ErrValidation, s)
}

// FiscalCalendar maps calendar dates to quarter labels. Q1 starts on StartMonth and
// each label covers three consecutive months. The same calendar is used for ledger
// auto-assignment, list filters and period labels.
type FiscalCalendar struct {
	StartMonth time.Month
}

// DefaultFiscalCalendar is the January-start calendar year.
func DefaultFiscalCalendar() FiscalCalendar {
	return FiscalCalendar{StartMonth: time.January}
}

// NewFiscalCalendar builds a calendar whose fiscal year begins on startMonth (1-12).
func NewFiscalCalendar(startMonth int) (FiscalCalendar, error) {
	if startMonth < 1 || startMonth > 12 {
		return FiscalCalendar{}, fmt.Errorf("%w: fiscal year start month must be 1-12, got %d", apperrors.ErrValidation, startMonth)
	}
	return FiscalCalendar{StartMonth: time.Month(startMonth)}, nil
}

// QuarterOf derives the quarter label of d. A zero date is rejected.
func (c FiscalCalendar) QuarterOf(d time.Time) (Quarter, error) {
	if d.IsZero() {
		return "", fmt.Errorf("%w: transaction_date is required to determine quarter", apperrors.ErrValidation)
	}
	start := c.StartMonth
	if start == 0 {
		start = time.January
	}
	offset := (int(d.Month()) - int(start) + 12) % 12
	return quarters[offset/3], nil
}
