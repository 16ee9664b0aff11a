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
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, scope domain.Scope, account domain.Account) (*domain.Account, error) {
	if err := claimOwnership(scope, &account.FacilityID, &account.HospitalID); err != nil {
		return nil, err
	}
	account.AccountID = 0
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := s.accountRepo.SaveAccount(ctx, &account); err != nil {
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("name", account.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.Int64("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountWithBalance(ctx context.Context, scope domain.Scope, accountID int64) (*domain.AccountWithBalance, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	acc, err := s.accountRepo.FindAccountWithBalance(ctx, accountID)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.Int64("account_id", accountID))
		}
		return nil, err
	}
	if err := s.AuthorizeScope(ctx, scope, acc.FacilityID, acc.HospitalID); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *accountService) ListAccounts(ctx context.Context, scope domain.Scope, filter domain.AccountFilter) ([]domain.AccountWithBalance, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var ok bool
	if filter.FacilityID, ok = narrow(filter.FacilityID, scope.FacilityFilter()); !ok {
		return []domain.AccountWithBalance{}, nil
	}
	if filter.HospitalID, ok = narrow(filter.HospitalID, scope.HospitalFilter()); !ok {
		return []domain.AccountWithBalance{}, nil
	}

	accounts, err := s.accountRepo.ListAccountsWithBalance(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.AccountWithBalance{}, nil
	}

	s.LogDebug(ctx, "Accounts listed", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, scope domain.Scope, accountID int64, patch domain.AccountPatch) (*domain.Account, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeScope(ctx, scope, acc.FacilityID, acc.HospitalID); err != nil {
		return nil, err
	}

	patch.Apply(acc)
	if err := acc.Validate(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateAccount(ctx, *acc); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.Int64("account_id", accountID))
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) DeleteAccount(ctx context.Context, scope domain.Scope, accountID int64) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeScope(ctx, scope, acc.FacilityID, acc.HospitalID); err != nil {
		return err
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete account", slog.Int64("account_id", accountID))
		}
		return err
	}

	s.LogInfo(ctx, "Account deleted", slog.Int64("account_id", accountID))
	return nil
}
