package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account's totals in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Net         decimal.Decimal `json:"net"` // Debit minus credit
}

// TaxTotals aggregates tax movement over a reporting window.
type TaxTotals struct {
	OutputTax decimal.Decimal `json:"outputTax"` // Collected on sales (tax payable)
	InputTax  decimal.Decimal `json:"inputTax"`  // Recoverable on expenses
	NetTax    decimal.Decimal `json:"netTax"`    // Output minus input
}
