package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
)

// reportingService serves read-side aggregate sums over posted entries.
// Empty key sets short-circuit to zero without touching the database.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	chart         domain.ChartOfAccounts
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, chart domain.ChartOfAccounts) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo, chart: chart}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func accountTypeKeys(types []domain.AccountType) []string {
	keys := make([]string, 0, len(types))
	for _, t := range types {
		keys = append(keys, string(t))
	}
	return keys
}

func (s *reportingService) SumByAccountTypes(ctx context.Context, types []domain.AccountType, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	if len(types) == 0 {
		return decimal.Zero, nil
	}
	return s.reportingRepo.SumMovementBetween(ctx, portsrepo.ByType, accountTypeKeys(types), start, end, creditMinusDebit)
}

func (s *reportingService) SumByAccountCodes(ctx context.Context, codes []string, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	if len(codes) == 0 {
		return decimal.Zero, nil
	}
	return s.reportingRepo.SumMovementBetween(ctx, portsrepo.ByCode, codes, start, end, creditMinusDebit)
}

func (s *reportingService) SumByClassifications(ctx context.Context, classifications []string, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	if len(classifications) == 0 {
		return decimal.Zero, nil
	}
	return s.reportingRepo.SumMovementBetween(ctx, portsrepo.ByClassification, classifications, start, end, creditMinusDebit)
}

func (s *reportingService) SumAsOfByAccountTypes(ctx context.Context, types []domain.AccountType, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	if len(types) == 0 {
		return decimal.Zero, nil
	}
	return s.reportingRepo.SumMovementAsOf(ctx, portsrepo.ByType, accountTypeKeys(types), asOf, creditMinusDebit)
}

func (s *reportingService) SumAsOfByAccountCodes(ctx context.Context, codes []string, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	if len(codes) == 0 {
		return decimal.Zero, nil
	}
	return s.reportingRepo.SumMovementAsOf(ctx, portsrepo.ByCode, codes, asOf, creditMinusDebit)
}

func (s *reportingService) SumAsOfByClassifications(ctx context.Context, classifications []string, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	if len(classifications) == 0 {
		return decimal.Zero, nil
	}
	return s.reportingRepo.SumMovementAsOf(ctx, portsrepo.ByClassification, classifications, asOf, creditMinusDebit)
}

// GetTaxTotals composes output tax (credit movement on tax payable) and input
// tax (debit movement on tax recoverable) over the window.
func (s *reportingService) GetTaxTotals(ctx context.Context, start, end time.Time) (*domain.TaxTotals, error) {
	outputTax, err := s.SumByAccountCodes(ctx, []string{s.chart.TaxPayable}, start, end, true)
	if err != nil {
		return nil, fmt.Errorf("failed to sum output tax: %w", err)
	}
	inputTax, err := s.SumByAccountCodes(ctx, []string{s.chart.TaxRecoverable}, start, end, false)
	if err != nil {
		return nil, fmt.Errorf("failed to sum input tax: %w", err)
	}
	return &domain.TaxTotals{
		OutputTax: outputTax,
		InputTax:  inputTax,
		NetTax:    outputTax.Sub(inputTax),
	}, nil
}

// GetTrialBalance returns per-account totals across all posted entries,
// ordered by account code.
func (s *reportingService) GetTrialBalance(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	return s.reportingRepo.GetTrialBalanceData(ctx)
}
