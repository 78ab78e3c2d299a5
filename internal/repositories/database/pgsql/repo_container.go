package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over a shared pool with
// the startup-detected schema capabilities.
func NewRepositoryProvider(dbPool *pgxpool.Pool, caps SchemaCapabilities) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		JournalRepo:         NewJournalEntryRepository(dbPool, caps),
		AccountRepo:         NewAccountRepository(dbPool),
		PeriodRepo:          NewPeriodRepository(dbPool),
		SaleRepo:            NewSaleRepository(dbPool),
		ExpenseCategoryRepo: NewExpenseCategoryRepository(dbPool, caps),
		ReportingRepo:       NewReportingRepository(dbPool, caps),
	}
}
