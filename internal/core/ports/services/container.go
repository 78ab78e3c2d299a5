package services

// ServiceContainer bundles every service facade for handler wiring.
type ServiceContainer struct {
	Posting   PostingSvcFacade
	Period    PeriodSvcFacade
	Resolver  AccountResolverFacade
	Reporting ReportingSvcFacade
}
