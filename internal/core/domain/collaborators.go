package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleTotals is the slice of a sale record the posting engine reads: the stored
// header amounts, never the line items. The engine trusts these totals were
// computed by the checkout flow.
type SaleTotals struct {
	SaleID        string          `json:"saleID"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	SaleDate      time.Time       `json:"saleDate"`
}

// SaleItemCost is a costed sale line consulted for COGS recognition.
type SaleItemCost struct {
	Quantity  decimal.Decimal `json:"quantity"`
	CostPrice decimal.Decimal `json:"costPrice"`
}

// ExpenseCategory is consulted only to resolve an optional per-category
// account code; an empty AccountCode falls back to the default expense account.
type ExpenseCategory struct {
	CategoryID  string `json:"categoryID"`
	Name        string `json:"name"`
	AccountCode string `json:"accountCode"`
}
