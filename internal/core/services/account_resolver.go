package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/internal/middleware"
)

// ErrAccountNotFound indicates a referenced account code has no matching row.
// This is a configuration defect, not a retryable condition.
var ErrAccountNotFound = errors.New("account not found")

// accountResolver maps stable account codes and dynamic lookups (expense
// category config, payment methods) to internal account identifiers.
type accountResolver struct {
	accountRepo  portsrepo.AccountRepository
	categoryRepo portsrepo.ExpenseCategoryReader
	chart        domain.ChartOfAccounts
}

// NewAccountResolver creates a new AccountResolver.
func NewAccountResolver(accountRepo portsrepo.AccountRepository, categoryRepo portsrepo.ExpenseCategoryReader, chart domain.ChartOfAccounts) portssvc.AccountResolverFacade {
	return &accountResolver{
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		chart:        chart,
	}
}

var _ portssvc.AccountResolverFacade = (*accountResolver)(nil)

// ResolveAccountID maps an account code to its internal identifier.
func (s *accountResolver) ResolveAccountID(ctx context.Context, code string) (string, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: code %s", ErrAccountNotFound, code)
		}
		return "", fmt.Errorf("failed to resolve account code %s: %w", code, err)
	}
	return account.AccountID, nil
}

// ResolveExpenseAccount resolves the debit account for an expense: the
// category's configured account code when present, otherwise the default
// expense account. A nil category id goes straight to the default.
func (s *accountResolver) ResolveExpenseAccount(ctx context.Context, categoryID *string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if categoryID == nil || *categoryID == "" {
		return s.ResolveAccountID(ctx, s.chart.DefaultExpense)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A stale category reference should not block an approved expense.
			logger.Warn("Expense category not found, using default expense account", slog.String("category_id", *categoryID))
			return s.ResolveAccountID(ctx, s.chart.DefaultExpense)
		}
		return "", fmt.Errorf("failed to load expense category %s: %w", *categoryID, err)
	}

	if category.AccountCode == "" {
		return s.ResolveAccountID(ctx, s.chart.DefaultExpense)
	}
	return s.ResolveAccountID(ctx, category.AccountCode)
}

// ResolveDisbursementAccount maps a payment method to the account code
// credited when money goes out. Unrecognized methods map to the bank account
// rather than blocking the posting.
func (s *accountResolver) ResolveDisbursementAccount(paymentMethod string) string {
	switch paymentMethod {
	case "cash":
		return s.chart.Cash
	case "bank_transfer", "card", "mobile_money", "cheque":
		return s.chart.Bank
	case "credit", "accounts_payable":
		return s.chart.AccountsPayable
	default:
		return s.chart.Bank
	}
}

// ListAccounts returns the reference chart of accounts.
func (s *accountResolver) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}
