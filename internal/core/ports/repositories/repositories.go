package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/harborpos/ledger/internal/core/domain"
)

// TxManager exposes explicit transaction control. Posting operations that own a
// transaction call Begin/Commit and defer Rollback; composable operations
// receive an already-open pgx.Tx and never begin or commit one themselves.
type TxManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// JournalEntryRepository defines persistence operations for journal entries and
// their lines. Insertion happens inside a caller-owned transaction.
type JournalEntryRepository interface {
	TxManager

	// IsPosted reports whether a posted entry already exists for the exact
	// (source, sourceID, referenceNo) triple. Primary idempotency defense.
	IsPosted(ctx context.Context, source domain.EntrySource, sourceID *string, referenceNo string) (bool, error)

	// NextEntryNumber produces the next JE-{YYYYMMDD}-{seq} number for the given
	// posting date, reading the latest existing number inside the transaction.
	NextEntryNumber(ctx context.Context, tx pgx.Tx, date time.Time) (string, error)

	InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error
	InsertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error

	// MarkPosted flips the entry to POSTED, best-effort across the optional
	// status/posted_by/posted_at columns.
	MarkPosted(ctx context.Context, tx pgx.Tx, entryID string, actorID string, at time.Time) error

	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)
}

// AccountRepository defines read operations over the reference chart of accounts.
type AccountRepository interface {
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// PeriodRepository defines persistence operations for accounting periods.
type PeriodRepository interface {
	// FindPeriodCovering returns the period whose date range contains the given
	// date, regardless of status. Returns apperrors.ErrNotFound when none exists.
	FindPeriodCovering(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	InsertPeriod(ctx context.Context, period domain.AccountingPeriod) error
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, actorID string, at time.Time) error
}

// SaleReader is the outbound collaborator consulted for stored sale totals
// (refund reversals) and costed items (COGS recognition).
type SaleReader interface {
	GetSaleTotals(ctx context.Context, saleID string) (*domain.SaleTotals, error)
	ListItemCosts(ctx context.Context, saleID string) ([]domain.SaleItemCost, error)
}

// ExpenseCategoryReader resolves the optional per-category account code.
// Implementations return an empty AccountCode when the schema lacks the column.
type ExpenseCategoryReader interface {
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error)
}

// AccountDimension selects which account attribute a movement sum filters on.
type AccountDimension string

const (
	ByType           AccountDimension = "type"
	ByCode           AccountDimension = "code"
	ByClassification AccountDimension = "classification"
)

// ReportingRepository answers read-side aggregate queries over posted entries.
type ReportingRepository interface {
	// SumMovementBetween sums line movement for accounts matching keys on the
	// given dimension, over entry dates in [start, end]. creditMinusDebit picks
	// the sign convention.
	SumMovementBetween(ctx context.Context, dim AccountDimension, keys []string, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error)

	// SumMovementAsOf is the as-of variant: entry dates <= asOf.
	SumMovementAsOf(ctx context.Context, dim AccountDimension, keys []string, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error)

	// GetTrialBalanceData returns per-account debit/credit totals across all
	// posted entries, ordered by account code.
	GetTrialBalanceData(ctx context.Context) ([]domain.TrialBalanceRow, error)
}
