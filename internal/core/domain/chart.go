package domain

// ChartOfAccounts holds the fixed account codes the posting engine writes to.
// The codes are resolved once at startup (config may override individual codes)
// instead of being scattered through posting logic as string literals.
type ChartOfAccounts struct {
	Cash               string
	Bank               string
	AccountsReceivable string
	Inventory          string
	TaxRecoverable     string
	AccountsPayable    string
	TaxPayable         string
	Revenue            string
	SalesDiscount      string
	CostOfGoodsSold    string
	DefaultExpense     string
}

// DefaultChart returns the stock chart used by the seeded schema.
func DefaultChart() ChartOfAccounts {
	return ChartOfAccounts{
		Cash:               "1000",
		Bank:               "1010",
		AccountsReceivable: "1100",
		Inventory:          "1200",
		TaxRecoverable:     "1300",
		AccountsPayable:    "2000",
		TaxPayable:         "2100",
		Revenue:            "4000",
		SalesDiscount:      "4510",
		CostOfGoodsSold:    "5000",
		DefaultExpense:     "6000",
	}
}
