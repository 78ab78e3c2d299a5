package domain

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a ledger account. Accounts are reference data: they are
// created and maintained outside the posting engine, which only reads them.
type Account struct {
	AccountID      string      `json:"accountID"`      // Primary Key (UUID)
	Code           string      `json:"code"`           // Short stable code, e.g. "1000"
	Name           string      `json:"name"`           // Display name
	AccountType    AccountType `json:"accountType"`    // ASSET, LIABILITY, etc.
	Classification string      `json:"classification"` // Finer-grained reporting group
	IsActive       bool        `json:"isActive"`
	CreatedAt      time.Time   `json:"createdAt"`
	CreatedBy      string      `json:"createdBy"`
}
