package repositories

// RepositoryProvider bundles every repository the services need.
type RepositoryProvider struct {
	JournalRepo         JournalEntryRepository
	AccountRepo         AccountRepository
	PeriodRepo          PeriodRepository
	SaleRepo            SaleReader
	ExpenseCategoryRepo ExpenseCategoryReader
	ReportingRepo       ReportingRepository
}
