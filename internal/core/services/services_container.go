package services

import (
	portsrepo "github.com/SscSPs/facility_finance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
	"github.com/SscSPs/facility_finance_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) (*portssvc.ServiceContainer, error) {
	calendar, err := cfg.FiscalCalendar()
	if err != nil {
		return nil, err
	}

	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo),
		Cashbook: NewCashbookService(
			repos.CashbookRepo,
			repos.AccountRepo,
			WithFiscalCalendar(calendar),
			WithReferencePrefix(cfg.ReferencePrefix),
		),
	}, nil
}
