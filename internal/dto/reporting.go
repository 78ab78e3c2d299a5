package dto

import (
	"github.com/shopspring/decimal"

	"github.com/harborpos/ledger/internal/core/domain"
)

// TaxTotalsResponse reports tax movement over a window.
type TaxTotalsResponse struct {
	OutputTax decimal.Decimal `json:"outputTax"`
	InputTax  decimal.Decimal `json:"inputTax"`
	NetTax    decimal.Decimal `json:"netTax"`
}

// TrialBalanceResponse wraps the per-account rows plus grand totals.
type TrialBalanceResponse struct {
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
}
