package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/harborpos/ledger/internal/core/domain"
	"github.com/harborpos/ledger/internal/dto"
)

// PostingSvcFacade is the ledger posting engine: one operation per business
// event source. Every operation is idempotent on its (source, sourceID,
// referenceNo) triple and fails fast on locked periods before any write.
type PostingSvcFacade interface {
	PostSale(ctx context.Context, req dto.PostSaleRequest, actorID string) (*dto.PostingResult, error)
	PostExpense(ctx context.Context, req dto.PostExpenseRequest, actorID string) (*dto.PostingResult, error)
	// PostExpenseInTx participates in the caller's open transaction: it never
	// begins or commits one, leaving rollback to the transaction owner.
	PostExpenseInTx(ctx context.Context, tx pgx.Tx, req dto.PostExpenseRequest, actorID string) (*dto.PostingResult, error)
	PostManualEntry(ctx context.Context, req dto.PostManualEntryRequest, actorID string) (*dto.PostingResult, error)
	PostCOGS(ctx context.Context, req dto.PostCOGSRequest, actorID string) (*dto.PostingResult, error)
	PostRefund(ctx context.Context, req dto.PostRefundRequest, actorID string) (*dto.PostingResult, error)
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// PeriodSvcFacade answers period-lock questions and persists close/lock actions.
type PeriodSvcFacade interface {
	IsPeriodLocked(ctx context.Context, date time.Time) (bool, error)
	// ResolvePeriod finds the covering period regardless of status; a nil id is
	// legal and means the entry simply carries no period linkage.
	ResolvePeriod(ctx context.Context, date time.Time) (*string, error)
	ClosePeriod(ctx context.Context, startDate, endDate time.Time, actorID string) (string, error)
	LockPeriod(ctx context.Context, periodID string, actorID string) error
}

// AccountResolverFacade maps stable account codes and dynamic lookups to
// internal account identifiers.
type AccountResolverFacade interface {
	// ResolveAccountID fails with an account-not-found error when the code has
	// no matching row; that is a configuration defect, not retryable.
	ResolveAccountID(ctx context.Context, code string) (string, error)
	// ResolveExpenseAccount walks category account-code config, falling back to
	// the default expense account. A nil category id is legal.
	ResolveExpenseAccount(ctx context.Context, categoryID *string) (string, error)
	// ResolveDisbursementAccount is a pure mapping from payment method to the
	// credited account code; unrecognized methods map to the bank account.
	ResolveDisbursementAccount(paymentMethod string) string
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// ReportingSvcFacade serves read-side aggregate sums over posted entries.
// Empty key sets short-circuit to zero without querying.
type ReportingSvcFacade interface {
	SumByAccountTypes(ctx context.Context, types []domain.AccountType, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error)
	SumByAccountCodes(ctx context.Context, codes []string, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error)
	SumByClassifications(ctx context.Context, classifications []string, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error)
	SumAsOfByAccountTypes(ctx context.Context, types []domain.AccountType, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error)
	SumAsOfByAccountCodes(ctx context.Context, codes []string, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error)
	SumAsOfByClassifications(ctx context.Context, classifications []string, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error)
	GetTaxTotals(ctx context.Context, start, end time.Time) (*domain.TaxTotals, error)
	GetTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error)
}
