// Package jobs holds the background jobs run by the server.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
)

// defaultAuditTimeout bounds one scheduled audit run.
const defaultAuditTimeout = 10 * time.Minute

// AuditJob compares stored running balances with a fresh recomputation and logs every
// account that drifted. It never writes.
type AuditJob struct {
	balances portssvc.BalanceMaintenanceSvc
	logger   *slog.Logger
	timeout  time.Duration
}

// NewAuditJob creates an audit job over balances.
func NewAuditJob(balances portssvc.BalanceMaintenanceSvc, logger *slog.Logger) *AuditJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditJob{
		balances: balances,
		logger:   logger.With(slog.String("job", "balance_audit")),
		timeout:  defaultAuditTimeout,
	}
}

// Run performs one audit and returns the drifted accounts.
func (j *AuditJob) Run(ctx context.Context) ([]domain.AccountDrift, error) {
	start := time.Now()
	drifts, err := j.balances.AuditBalances(ctx, domain.CountryScope())
	if err != nil {
		j.logger.Error("Balance audit failed", slog.String("error", err.Error()))
		return nil, err
	}

	for _, d := range drifts {
		j.logger.Error("Running balance drift detected",
			slog.Int64("account_id", d.AccountID),
			slog.Int64("first_bad_entry_id", d.FirstBadEntryID),
			slog.String("stored", d.Stored.StringFixed(2)),
			slog.String("expected", d.Expected.StringFixed(2)),
		)
	}
	j.logger.Info("Balance audit completed",
		slog.Int("drifted_accounts", len(drifts)),
		slog.Duration("duration", time.Since(start)),
	)
	return drifts, nil
}

// runScheduled is the cron entry point. Panics are recovered so one bad run does not stop
// the scheduler.
func (j *AuditJob) runScheduled() {
	defer func() {
		if r := recover(); r != nil {
			j.logger.Error("Balance audit panicked", slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	_, _ = j.Run(ctx)
}
