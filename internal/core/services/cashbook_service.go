package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/facility_finance_app/internal/apperrors"
	"github.com/SscSPs/facility_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
	"github.com/SscSPs/facility_finance_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// cashbookService is the entry lifecycle manager. It owns the order of operations of every
// mutation: validate, lock, assign quarter and reference, write, recompute, verify.
type cashbookService struct {
	BaseService
	cashbookRepo portsrepo.CashbookRepositoryFacade
	accountRepo  portsrepo.AccountReader
	calendar     domain.FiscalCalendar
	references   referenceGenerator
	engine       balanceEngine
}

// CashbookOption is a functional option for configuring the cashbook service
type CashbookOption func(*cashbookService)

// WithFiscalCalendar sets the calendar used to derive quarters.
func WithFiscalCalendar(cal domain.FiscalCalendar) CashbookOption {
	return func(s *cashbookService) {
		s.calendar = cal
	}
}

// WithReferencePrefix sets the base of generated references.
func WithReferencePrefix(base string) CashbookOption {
	return func(s *cashbookService) {
		if base != "" {
			s.references.base = base
		}
	}
}

// NewCashbookService creates a new cashbook service with the provided options
func NewCashbookService(cashbookRepo portsrepo.CashbookRepositoryFacade, accountRepo portsrepo.AccountReader, options ...CashbookOption) portssvc.CashbookSvcFacade {
	svc := &cashbookService{
		cashbookRepo: cashbookRepo,
		accountRepo:  accountRepo,
		calendar:     domain.DefaultFiscalCalendar(),
		references:   referenceGenerator{base: DefaultReferencePrefix},
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.CashbookSvcFacade = (*cashbookService)(nil)

// CreateEntry implements portssvc.CashbookWriterSvc
func (s *cashbookService) CreateEntry(ctx context.Context, scope domain.Scope, draft domain.CashbookEntry) (*domain.CashbookEntry, error) {
	if err := claimOwnership(scope, &draft.FacilityID, &draft.HospitalID); err != nil {
		return nil, err
	}

	draft.EntryID = 0
	draft.Balance = decimal.Zero
	draft.TransactionDate = domain.DateOnly(draft.TransactionDate)
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.Quarter == "" {
		q, err := s.calendar.QuarterOf(draft.TransactionDate)
		if err != nil {
			return nil, err
		}
		draft.Quarter = q
	}

	var created *domain.CashbookEntry
	err := s.cashbookRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.CashbookTx) error {
		if _, err := s.lockAccount(ctx, tx, scope, draft.AccountID); err != nil {
			return err
		}

		if draft.Reference == "" {
			ref, err := s.references.Next(ctx, tx, draft.AccountID, draft.TransactionDate)
			if err != nil {
				return err
			}
			draft.Reference = ref
		} else {
			taken, err := tx.ReferenceExists(ctx, draft.Reference)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: reference %s is already in use", apperrors.ErrDuplicate, draft.Reference)
			}
		}

		latest, err := tx.LatestEntry(ctx, draft.AccountID)
		if err != nil {
			return err
		}
		draft.Balance = accounting.ProvisionalBalance(latest, draft)

		if err := tx.InsertEntry(ctx, &draft); err != nil {
			return err
		}
		if _, err := s.engine.Recompute(ctx, tx, draft.AccountID); err != nil {
			return err
		}

		created, err = tx.FindEntry(ctx, draft.EntryID)
		return err
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "create", slog.Int64("account_id", draft.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Cashbook entry created",
		slog.Int64("entry_id", created.EntryID),
		slog.Int64("account_id", created.AccountID),
		slog.String("reference", created.Reference),
		slog.String("balance", created.Balance.String()))
	return created, nil
}

// UpdateEntry implements portssvc.CashbookWriterSvc
func (s *cashbookService) UpdateEntry(ctx context.Context, scope domain.Scope, entryID int64, patch domain.CashbookPatch) (*domain.CashbookEntry, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := s.visibleEntry(ctx, scope, entryID)
	if err != nil {
		return nil, err
	}

	lockIDs := []int64{current.AccountID}
	if patch.AccountID.Set && patch.AccountID.Value != current.AccountID {
		lockIDs = append(lockIDs, patch.AccountID.Value)
	}

	var updated *domain.CashbookEntry
	err = s.cashbookRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.CashbookTx) error {
		accounts, err := tx.LockAccounts(ctx, lockIDs...)
		if err != nil {
			return err
		}

		entry, err := s.relockedEntry(ctx, tx, entryID, current.AccountID)
		if err != nil {
			return err
		}

		effect := patch.Apply(entry)
		if effect.DateChanged {
			if entry.Quarter, err = s.calendar.QuarterOf(entry.TransactionDate); err != nil {
				return err
			}
		}
		if err := entry.Validate(); err != nil {
			return err
		}
		if err := s.AuthorizeScope(ctx, scope, entry.FacilityID, entry.HospitalID); err != nil {
			return err
		}
		if effect.AccountChanged {
			target, ok := accounts[entry.AccountID]
			if !ok {
				return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, entry.AccountID)
			}
			if err := s.AuthorizeScope(ctx, scope, target.FacilityID, target.HospitalID); err != nil {
				return err
			}
		}

		if err := tx.UpdateEntry(ctx, *entry); err != nil {
			return err
		}

		if effect.NeedsRecompute() {
			if _, err := s.engine.Recompute(ctx, tx, effect.PreviousAccountID); err != nil {
				return err
			}
			if effect.AccountChanged {
				if _, err := s.engine.Recompute(ctx, tx, entry.AccountID); err != nil {
					return err
				}
			}
		}

		updated, err = tx.FindEntry(ctx, entryID)
		return err
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "update", slog.Int64("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Cashbook entry updated",
		slog.Int64("entry_id", updated.EntryID),
		slog.Int64("account_id", updated.AccountID),
		slog.String("reference", updated.Reference))
	return updated, nil
}

// DeleteEntry implements portssvc.CashbookWriterSvc
func (s *cashbookService) DeleteEntry(ctx context.Context, scope domain.Scope, entryID int64) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	current, err := s.visibleEntry(ctx, scope, entryID)
	if err != nil {
		return err
	}

	err = s.cashbookRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.CashbookTx) error {
		if _, err := tx.LockAccounts(ctx, current.AccountID); err != nil {
			return err
		}
		if _, err := s.relockedEntry(ctx, tx, entryID, current.AccountID); err != nil {
			return err
		}
		if err := tx.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		_, err := s.engine.Recompute(ctx, tx, current.AccountID)
		return err
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "delete", slog.Int64("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Cashbook entry deleted",
		slog.Int64("entry_id", entryID),
		slog.Int64("account_id", current.AccountID),
		slog.String("reference", current.Reference))
	return nil
}

// GetEntry implements portssvc.CashbookReaderSvc
func (s *cashbookService) GetEntry(ctx context.Context, scope domain.Scope, entryID int64) (*domain.CashbookEntry, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.visibleEntry(ctx, scope, entryID)
}

// ListEntries implements portssvc.CashbookReaderSvc
func (s *cashbookService) ListEntries(ctx context.Context, scope domain.Scope, filter domain.EntryFilter) (*domain.EntryPage, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var ok bool
	if filter.FacilityID, ok = narrow(filter.FacilityID, scope.FacilityFilter()); !ok {
		return &domain.EntryPage{Entries: []domain.CashbookEntry{}}, nil
	}
	if filter.HospitalID, ok = narrow(filter.HospitalID, scope.HospitalFilter()); !ok {
		return &domain.EntryPage{Entries: []domain.CashbookEntry{}}, nil
	}

	limit := filter.Limit
	if limit > 0 {
		filter.Limit = limit + 1
	}
	entries, err := s.cashbookRepo.ListEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cashbook entries")
		return nil, fmt.Errorf("failed to list cashbook entries: %w", err)
	}
	if entries == nil {
		entries = []domain.CashbookEntry{}
	}

	page := &domain.EntryPage{Entries: entries}
	if limit > 0 && len(entries) > limit {
		page.Entries = entries[:limit]
		last := page.Entries[limit-1]
		page.Next = &domain.EntryCursor{TransactionDate: last.TransactionDate, EntryID: last.EntryID}
	}

	s.LogDebug(ctx, "Cashbook entries listed", slog.Int("count", len(page.Entries)))
	return page, nil
}

// RecomputeAccount implements portssvc.BalanceMaintenanceSvc
func (s *cashbookService) RecomputeAccount(ctx context.Context, scope domain.Scope, accountID int64) (int, error) {
	if err := requireCountry(scope); err != nil {
		return 0, err
	}

	var rewritten int
	err := s.cashbookRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.CashbookTx) error {
		if _, err := s.lockAccount(ctx, tx, scope, accountID); err != nil {
			return err
		}
		var err error
		rewritten, err = s.engine.Recompute(ctx, tx, accountID)
		return err
	})
	if err != nil {
		s.logMutationFailure(ctx, err, "recompute", slog.Int64("account_id", accountID))
		return 0, err
	}

	s.LogInfo(ctx, "Account balances recomputed",
		slog.Int64("account_id", accountID),
		slog.Int("rewritten", rewritten))
	return rewritten, nil
}

// AuditBalances implements portssvc.BalanceMaintenanceSvc
func (s *cashbookService) AuditBalances(ctx context.Context, scope domain.Scope) ([]domain.AccountDrift, error) {
	if err := requireCountry(scope); err != nil {
		return nil, err
	}

	ids, err := s.accountRepo.ListAccountIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for audit: %w", err)
	}

	drifts := []domain.AccountDrift{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := s.cashbookRepo.ListAccountEntries(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load entries of account %d: %w", id, err)
		}
		accounting.SortLedgerOrder(entries)
		if drift := accounting.VerifyRunningBalances(id, entries); drift != nil {
			s.GetLogger(ctx).Warn("Balance drift detected",
				slog.Int64("account_id", id),
				slog.Int64("entry_id", drift.FirstBadEntryID),
				slog.String("stored", drift.Stored.String()),
				slog.String("expected", drift.Expected.String()))
			drifts = append(drifts, *drift)
		}
	}

	s.LogInfo(ctx, "Balance audit finished", slog.Int("accounts", len(ids)), slog.Int("drifted", len(drifts)))
	return drifts, nil
}

// lockAccount locks one account and checks the caller may act on it.
func (s *cashbookService) lockAccount(ctx context.Context, tx portsrepo.CashbookTx, scope domain.Scope, accountID int64) (*domain.Account, error) {
	accounts, err := tx.LockAccounts(ctx, accountID)
	if err != nil {
		return nil, err
	}
	acc, ok := accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	if err := s.AuthorizeScope(ctx, scope, acc.FacilityID, acc.HospitalID); err != nil {
		return nil, err
	}
	return &acc, nil
}

// visibleEntry loads an entry outside any transaction and checks scope.
func (s *cashbookService) visibleEntry(ctx context.Context, scope domain.Scope, entryID int64) (*domain.CashbookEntry, error) {
	entry, err := s.cashbookRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find cashbook entry", slog.Int64("entry_id", entryID))
		}
		return nil, err
	}
	if err := s.AuthorizeScope(ctx, scope, entry.FacilityID, entry.HospitalID); err != nil {
		return nil, err
	}
	return entry, nil
}

// relockedEntry re-reads an entry after its account lock was taken. If the entry moved to
// another account in between, the locks held are the wrong ones and the caller must retry.
func (s *cashbookService) relockedEntry(ctx context.Context, tx portsrepo.CashbookTx, entryID, lockedAccountID int64) (*domain.CashbookEntry, error) {
	entry, err := tx.FindEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.AccountID != lockedAccountID {
		return nil, fmt.Errorf("%w: entry %d moved to account %d concurrently", apperrors.ErrContention, entryID, entry.AccountID)
	}
	return entry, nil
}

func (s *cashbookService) logMutationFailure(ctx context.Context, err error, op string, attrs ...any) {
	args := append([]any{slog.String("op", op), slog.String("error", err.Error())}, attrs...)
	switch {
	case apperrors.IsRetryable(err):
		s.GetLogger(ctx).Warn("Cashbook mutation hit contention", args...)
	case errors.Is(err, apperrors.ErrConsistency):
		s.GetLogger(ctx).Error("Cashbook mutation aborted on consistency failure", args...)
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrDuplicate):
		s.GetLogger(ctx).Debug("Cashbook mutation rejected", args...)
	default:
		s.GetLogger(ctx).Error("Cashbook mutation failed", args...)
	}
}

// narrow intersects a requested filter with the filter imposed by scope. It reports false
// when the two cannot both hold.
func narrow(requested, imposed *int64) (*int64, bool) {
	if imposed == nil {
		return requested, true
	}
	if requested != nil && *requested != *imposed {
		return nil, false
	}
	return imposed, true
}
