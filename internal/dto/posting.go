package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostSaleRequest carries the checkout totals for one completed sale. The
// engine trusts subtotal/discount/tax/total to be mutually consistent inputs
// from the checkout flow, but cross-checks them before building lines.
type PostSaleRequest struct {
	SaleID        string          `json:"saleID" binding:"required"`
	Subtotal      decimal.Decimal `json:"subtotal" binding:"required"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,paymentmethod"`
	SaleDate      time.Time       `json:"saleDate" binding:"required"`
	Description   string          `json:"description"`
}

// PostExpenseRequest carries one approved expense. Gross includes recoverable
// tax; the engine splits net expense from tax at posting time.
type PostExpenseRequest struct {
	ExpenseID     string          `json:"expenseID" binding:"required"`
	Gross         decimal.Decimal `json:"gross" binding:"required"`
	Tax           decimal.Decimal `json:"tax"`
	PaymentMethod string          `json:"paymentMethod" binding:"required,paymentmethod"`
	CategoryID    *string         `json:"categoryID"`
	ExpenseDate   time.Time       `json:"expenseDate" binding:"required"`
	Description   string          `json:"description"`
}

// ManualLineRequest is one caller-supplied leg of a manual entry. The account
// may be referenced by id or by resolvable code; one of the two is required.
type ManualLineRequest struct {
	AccountID   *string         `json:"accountID"`
	AccountCode *string         `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// PostManualEntryRequest carries an arbitrary balanced line set. ReferenceNo
// is optional: callers that want retry-safe manual postings supply their own
// stable reference; otherwise a fresh one is generated per call.
type PostManualEntryRequest struct {
	EntryDate   time.Time           `json:"entryDate" binding:"required"`
	Description string              `json:"description" binding:"required"`
	ReferenceNo string              `json:"referenceNo"`
	Lines       []ManualLineRequest `json:"lines" binding:"required,min=2"`
}

// PostCOGSRequest asks for cost-of-goods-sold recognition against a sale.
type PostCOGSRequest struct {
	SaleID    string    `json:"saleID" binding:"required"`
	EntryDate time.Time `json:"entryDate" binding:"required"`
}

// PostRefundRequest reverses a previously posted sale. The original sale's
// stored totals drive the reversal; the refund is recomputed, not negated.
type PostRefundRequest struct {
	SaleID     string    `json:"saleID" binding:"required"`
	RefundDate time.Time `json:"refundDate" binding:"required"`
}

// PostingResult is returned by every posting operation. AlreadyPosted signals
// an idempotent no-op: the entry existed before this call.
type PostingResult struct {
	EntryID       string `json:"entryID"`
	EntryNumber   string `json:"entryNumber,omitempty"`
	AlreadyPosted bool   `json:"alreadyPosted"`
}
