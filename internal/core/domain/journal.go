package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySource identifies the business event type that produced a journal entry.
type EntrySource string

const (
	SourceSale    EntrySource = "SALE"
	SourceExpense EntrySource = "EXPENSE"
	SourceManual  EntrySource = "MANUAL"
	SourceCOGS    EntrySource = "COGS"
	SourceRefund  EntrySource = "REFUND"
)

// EntryStatus indicates the state of a journal entry. An entry is created as
// DRAFT inside its posting transaction and flipped to POSTED before commit;
// once posted it is immutable and corrections go through new entries.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
)

// JournalEntry is the header of one balanced posting event.
// Invariant: TotalDebit equals TotalCredit, enforced before any row is written.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`     // Primary Key (UUID)
	EntryNumber string          `json:"entryNumber"` // Unique, e.g. JE-20240131-0007
	Source      EntrySource     `json:"source"`
	SourceID    *string         `json:"sourceID"`    // Originating business record, nullable
	ReferenceNo string          `json:"referenceNo"` // Idempotency key with Source+SourceID
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Status      EntryStatus     `json:"status"`
	PeriodID    *string         `json:"periodID"` // Covering accounting period, nullable
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	PostedBy    *string         `json:"postedBy"` // Only persisted when the schema carries the column
	PostedAt    *time.Time      `json:"postedAt"`
	Lines       []JournalLine   `json:"lines,omitempty"` // Often loaded separately
}

// JournalLine is one leg of an entry. Exactly one of DebitAmount/CreditAmount
// is non-zero by ledger discipline; the engine trusts line construction and
// enforces only the entry-level balance.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}
