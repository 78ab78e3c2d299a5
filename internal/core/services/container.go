package services

import (
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
)

// NewServiceContainer wires every service over the repository provider and the
// resolved chart of accounts.
func NewServiceContainer(repos portsrepo.RepositoryProvider, chart domain.ChartOfAccounts) *portssvc.ServiceContainer {
	resolver := NewAccountResolver(repos.AccountRepo, repos.ExpenseCategoryRepo, chart)
	period := NewPeriodService(repos.PeriodRepo)
	posting := NewPostingService(repos.JournalRepo, repos.SaleRepo, resolver, period, chart)
	reporting := NewReportingService(repos.ReportingRepo, chart)

	return &portssvc.ServiceContainer{
		Posting:   posting,
		Period:    period,
		Resolver:  resolver,
		Reporting: reporting,
	}
}
