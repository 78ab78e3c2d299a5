package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/internal/dto"
	"github.com/harborpos/ledger/internal/middleware"
	"github.com/harborpos/ledger/internal/utils/accounting"
)

// totalsTolerance absorbs sub-cent drift between a caller's stored totals and
// the subtotal-discount+tax identity. Anything larger is a bad payload.
var totalsTolerance = decimal.NewFromFloat(0.01)

// lineSpec is one leg of an entry before account resolution. Exactly one of
// accountID/accountCode is set.
type lineSpec struct {
	accountID   string
	accountCode string
	debit       decimal.Decimal
	credit      decimal.Decimal
	description string
}

// entryHeader carries the identifying fields shared by every posting operation.
type entryHeader struct {
	source      domain.EntrySource
	sourceID    *string
	referenceNo string
	entryDate   time.Time
	description string
}

// postingService turns business events into balanced, immutable journal
// entries. Every public operation is idempotent on its (source, sourceID,
// referenceNo) triple and fails fast on locked periods before any write.
type postingService struct {
	journalRepo portsrepo.JournalEntryRepository
	saleRepo    portsrepo.SaleReader
	resolver    portssvc.AccountResolverFacade
	periodSvc   portssvc.PeriodSvcFacade
	chart       domain.ChartOfAccounts
}

// NewPostingService creates a new PostingService.
func NewPostingService(
	journalRepo portsrepo.JournalEntryRepository,
	saleRepo portsrepo.SaleReader,
	resolver portssvc.AccountResolverFacade,
	periodSvc portssvc.PeriodSvcFacade,
	chart domain.ChartOfAccounts,
) portssvc.PostingSvcFacade {
	return &postingService{
		journalRepo: journalRepo,
		saleRepo:    saleRepo,
		resolver:    resolver,
		periodSvc:   periodSvc,
		chart:       chart,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// preflight runs the checks every posting operation performs before opening a
// transaction: the idempotency lookup and the period-lock fence. It returns
// true when the entry already exists and the caller should no-op.
func (s *postingService) preflight(ctx context.Context, h entryHeader) (bool, error) {
	posted, err := s.journalRepo.IsPosted(ctx, h.source, h.sourceID, h.referenceNo)
	if err != nil {
		return false, fmt.Errorf("idempotency check failed for %s: %w", h.referenceNo, err)
	}
	if posted {
		return true, nil
	}
	locked, err := s.periodSvc.IsPeriodLocked(ctx, h.entryDate)
	if err != nil {
		return false, fmt.Errorf("period lock check failed for %s: %w", h.entryDate.Format("2006-01-02"), err)
	}
	if locked {
		return false, apperrors.NewAppError(422,
			"accounting period covering "+h.entryDate.Format("2006-01-02")+" is locked",
			apperrors.ErrPeriodLocked)
	}
	return false, nil
}

// writeEntry persists one complete journal entry inside the caller's open
// transaction: resolve accounts, validate balance, resolve the covering
// period, generate the entry number, insert header and lines as DRAFT, then
// flip to POSTED. It never commits; transaction lifecycle stays with the caller.
func (s *postingService) writeEntry(ctx context.Context, tx pgx.Tx, h entryHeader, specs []lineSpec, tolerance decimal.Decimal, actorID string) (*domain.JournalEntry, error) {
	entryID := uuid.NewString()
	lines := make([]domain.JournalLine, 0, len(specs))
	for _, spec := range specs {
		accountID := spec.accountID
		if accountID == "" {
			resolved, err := s.resolver.ResolveAccountID(ctx, spec.accountCode)
			if err != nil {
				return nil, err
			}
			accountID = resolved
		}
		lines = append(lines, domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			AccountID:    accountID,
			DebitAmount:  spec.debit,
			CreditAmount: spec.credit,
			Description:  spec.description,
		})
	}

	// Balance is enforced before any row is written.
	var err error
	if tolerance.IsZero() {
		err = accounting.ValidateBalanced(lines)
	} else {
		err = accounting.ValidateBalancedWithin(lines, tolerance)
	}
	if err != nil {
		return nil, apperrors.NewValidationFailedError("journal entry does not balance", err)
	}

	periodID, err := s.periodSvc.ResolvePeriod(ctx, h.entryDate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve period for %s: %w", h.entryDate.Format("2006-01-02"), err)
	}

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, tx, h.entryDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	totalDebit, totalCredit := accounting.SumLines(lines)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: entryNumber,
		Source:      h.source,
		SourceID:    h.sourceID,
		ReferenceNo: h.referenceNo,
		EntryDate:   h.entryDate,
		Description: h.description,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Status:      domain.Draft,
		PeriodID:    periodID,
		CreatedBy:   actorID,
		CreatedAt:   now,
	}

	if err := s.journalRepo.InsertEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := s.journalRepo.InsertLines(ctx, tx, lines); err != nil {
		return nil, err
	}
	if err := s.journalRepo.MarkPosted(ctx, tx, entryID, actorID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedBy = &actorID
	entry.PostedAt = &now
	entry.Lines = lines
	return &entry, nil
}

// PostSale posts the journal entry for one completed sale and, when the sale
// has costed items, the matching COGS entry inside the same transaction.
func (s *postingService) PostSale(ctx context.Context, req dto.PostSaleRequest, actorID string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateSaleTotals(req.Subtotal, req.Discount, req.Tax, req.Total); err != nil {
		return nil, err
	}

	saleID := req.SaleID
	h := entryHeader{
		source:      domain.SourceSale,
		sourceID:    &saleID,
		referenceNo: "SALE-" + saleID,
		entryDate:   req.SaleDate,
		description: defaultDescription(req.Description, "Sale "+saleID),
	}
	if posted, err := s.preflight(ctx, h); err != nil {
		return nil, err
	} else if posted {
		logger.Info("Sale already posted, skipping", slog.String("sale_id", saleID))
		return &dto.PostingResult{AlreadyPosted: true}, nil
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	tender := s.chart.Cash
	if req.PaymentMethod == "credit" {
		tender = s.chart.AccountsReceivable
	}
	// Revenue is derived from the other three legs so the entry balances to the
	// cent even when the stored total drifts a sub-cent from the identity.
	revenue := req.Total.Add(req.Discount).Sub(req.Tax)
	specs := []lineSpec{
		{accountCode: tender, debit: req.Total, description: "Sale tender received"},
		{accountCode: s.chart.Revenue, credit: revenue, description: "Sales revenue"},
	}
	if req.Discount.IsPositive() {
		specs = append(specs, lineSpec{accountCode: s.chart.SalesDiscount, debit: req.Discount, description: "Sales discount"})
	}
	if req.Tax.IsPositive() {
		specs = append(specs, lineSpec{accountCode: s.chart.TaxPayable, credit: req.Tax, description: "Output tax"})
	}

	entry, err := s.writeEntry(ctx, tx, h, specs, decimal.Zero, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Info("Sale posted concurrently, absorbing duplicate", slog.String("sale_id", saleID))
			return &dto.PostingResult{AlreadyPosted: true}, nil
		}
		return nil, err
	}

	if _, err := s.postCOGSLocked(ctx, tx, saleID, req.SaleDate, actorID); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	logger.Info("Posted sale",
		slog.String("sale_id", saleID),
		slog.String("entry_number", entry.EntryNumber),
	)
	return &dto.PostingResult{EntryID: entry.EntryID, EntryNumber: entry.EntryNumber}, nil
}

// PostExpense posts one approved expense inside its own transaction.
func (s *postingService) PostExpense(ctx context.Context, req dto.PostExpenseRequest, actorID string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	h, specs, err := s.prepareExpense(ctx, req)
	if err != nil {
		return nil, err
	}
	if posted, err := s.preflight(ctx, h); err != nil {
		return nil, err
	} else if posted {
		logger.Info("Expense already posted, skipping", slog.String("expense_id", req.ExpenseID))
		return &dto.PostingResult{AlreadyPosted: true}, nil
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	entry, err := s.writeEntry(ctx, tx, h, specs, decimal.Zero, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Info("Expense posted concurrently, absorbing duplicate", slog.String("expense_id", req.ExpenseID))
			return &dto.PostingResult{AlreadyPosted: true}, nil
		}
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	logger.Info("Posted expense",
		slog.String("expense_id", req.ExpenseID),
		slog.String("entry_number", entry.EntryNumber),
	)
	return &dto.PostingResult{EntryID: entry.EntryID, EntryNumber: entry.EntryNumber}, nil
}

// PostExpenseInTx posts an expense as a participant in the caller's open
// transaction. It never begins, commits, or rolls back; on failure the error
// propagates and the transaction owner decides.
func (s *postingService) PostExpenseInTx(ctx context.Context, tx pgx.Tx, req dto.PostExpenseRequest, actorID string) (*dto.PostingResult, error) {
	h, specs, err := s.prepareExpense(ctx, req)
	if err != nil {
		return nil, err
	}
	if posted, err := s.preflight(ctx, h); err != nil {
		return nil, err
	} else if posted {
		return &dto.PostingResult{AlreadyPosted: true}, nil
	}
	entry, err := s.writeEntry(ctx, tx, h, specs, decimal.Zero, actorID)
	if err != nil {
		return nil, err
	}
	return &dto.PostingResult{EntryID: entry.EntryID, EntryNumber: entry.EntryNumber}, nil
}

// prepareExpense validates the payload and builds the header and line specs
// shared by the owner and participant expense paths.
func (s *postingService) prepareExpense(ctx context.Context, req dto.PostExpenseRequest) (entryHeader, []lineSpec, error) {
	if !req.Gross.IsPositive() {
		return entryHeader{}, nil, apperrors.NewValidationFailedError("expense gross amount must be positive", nil)
	}
	if req.Tax.IsNegative() || req.Tax.GreaterThan(req.Gross) {
		return entryHeader{}, nil, apperrors.NewValidationFailedError("expense tax must be between zero and gross", nil)
	}

	expenseAccountID, err := s.resolver.ResolveExpenseAccount(ctx, req.CategoryID)
	if err != nil {
		return entryHeader{}, nil, err
	}
	disbursementCode := s.resolver.ResolveDisbursementAccount(req.PaymentMethod)

	expenseID := req.ExpenseID
	h := entryHeader{
		source:      domain.SourceExpense,
		sourceID:    &expenseID,
		referenceNo: "EXP-" + expenseID,
		entryDate:   req.ExpenseDate,
		description: defaultDescription(req.Description, "Expense "+expenseID),
	}

	net := req.Gross.Sub(req.Tax)
	var specs []lineSpec
	if net.IsPositive() {
		specs = append(specs, lineSpec{accountID: expenseAccountID, debit: net, description: "Expense net of tax"})
	}
	if req.Tax.IsPositive() {
		specs = append(specs, lineSpec{accountCode: s.chart.TaxRecoverable, debit: req.Tax, description: "Input tax"})
	}
	specs = append(specs, lineSpec{accountCode: disbursementCode, credit: req.Gross, description: "Expense disbursement"})
	return h, specs, nil
}

// PostManualEntry posts a caller-supplied balanced line set. A caller-supplied
// reference number makes retries idempotent; without one each call posts a
// fresh entry under a generated reference.
func (s *postingService) PostManualEntry(ctx context.Context, req dto.PostManualEntryRequest, actorID string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, apperrors.NewValidationFailedError("manual entry needs at least two lines", nil)
	}
	specs := make([]lineSpec, 0, len(req.Lines))
	for i, line := range req.Lines {
		spec := lineSpec{debit: line.Debit, credit: line.Credit, description: line.Description}
		switch {
		case line.AccountID != nil && *line.AccountID != "":
			spec.accountID = *line.AccountID
		case line.AccountCode != nil && *line.AccountCode != "":
			spec.accountCode = *line.AccountCode
		default:
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("manual entry line %d references no account", i+1), nil)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, apperrors.NewValidationFailedError(fmt.Sprintf("manual entry line %d has a negative amount", i+1), nil)
		}
		specs = append(specs, spec)
	}

	referenceNo := req.ReferenceNo
	if referenceNo == "" {
		referenceNo = "MAN-" + uuid.NewString()
	}
	h := entryHeader{
		source:      domain.SourceManual,
		referenceNo: referenceNo,
		entryDate:   req.EntryDate,
		description: req.Description,
	}
	if posted, err := s.preflight(ctx, h); err != nil {
		return nil, err
	} else if posted {
		logger.Info("Manual entry already posted, skipping", slog.String("reference_no", referenceNo))
		return &dto.PostingResult{AlreadyPosted: true}, nil
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	entry, err := s.writeEntry(ctx, tx, h, specs, accounting.ManualEntryTolerance, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return &dto.PostingResult{AlreadyPosted: true}, nil
		}
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	logger.Info("Posted manual entry",
		slog.String("reference_no", referenceNo),
		slog.String("entry_number", entry.EntryNumber),
	)
	return &dto.PostingResult{EntryID: entry.EntryID, EntryNumber: entry.EntryNumber}, nil
}

// PostCOGS recognizes cost of goods sold for a sale in its own transaction.
// A zero cost total produces no entry and is not an error.
func (s *postingService) PostCOGS(ctx context.Context, req dto.PostCOGSRequest, actorID string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	h := cogsHeader(req.SaleID, req.EntryDate)
	if posted, err := s.preflight(ctx, h); err != nil {
		return nil, err
	} else if posted {
		logger.Info("COGS already posted, skipping", slog.String("sale_id", req.SaleID))
		return &dto.PostingResult{AlreadyPosted: true}, nil
	}

	total, err := s.saleCostTotal(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		logger.Info("Sale has no costed items, no COGS entry", slog.String("sale_id", req.SaleID))
		return &dto.PostingResult{}, nil
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	entry, err := s.writeCOGS(ctx, tx, h, total, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return &dto.PostingResult{AlreadyPosted: true}, nil
		}
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	logger.Info("Posted COGS",
		slog.String("sale_id", req.SaleID),
		slog.String("entry_number", entry.EntryNumber),
	)
	return &dto.PostingResult{EntryID: entry.EntryID, EntryNumber: entry.EntryNumber}, nil
}

// postCOGSLocked posts COGS as a participant in the sale's open transaction.
// The period lock was already checked for the same entry date by the sale
// preflight, so only the idempotency lookup is repeated.
func (s *postingService) postCOGSLocked(ctx context.Context, tx pgx.Tx, saleID string, entryDate time.Time, actorID string) (*domain.JournalEntry, error) {
	h := cogsHeader(saleID, entryDate)
	posted, err := s.journalRepo.IsPosted(ctx, h.source, h.sourceID, h.referenceNo)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed for %s: %w", h.referenceNo, err)
	}
	if posted {
		return nil, nil
	}
	total, err := s.saleCostTotal(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, nil
	}
	return s.writeCOGS(ctx, tx, h, total, actorID)
}

func (s *postingService) writeCOGS(ctx context.Context, tx pgx.Tx, h entryHeader, total decimal.Decimal, actorID string) (*domain.JournalEntry, error) {
	specs := []lineSpec{
		{accountCode: s.chart.CostOfGoodsSold, debit: total, description: "Cost of goods sold"},
		{accountCode: s.chart.Inventory, credit: total, description: "Inventory relief"},
	}
	return s.writeEntry(ctx, tx, h, specs, decimal.Zero, actorID)
}

// saleCostTotal sums quantity x cost price across a sale's items.
func (s *postingService) saleCostTotal(ctx context.Context, saleID string) (decimal.Decimal, error) {
	items, err := s.saleRepo.ListItemCosts(ctx, saleID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load item costs for sale %s: %w", saleID, err)
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Quantity.Mul(item.CostPrice))
	}
	return total, nil
}

// PostRefund reverses a posted sale. The reversal is recomputed from the
// sale's stored header totals, not built by negating the original lines.
func (s *postingService) PostRefund(ctx context.Context, req dto.PostRefundRequest, actorID string) (*dto.PostingResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sale, err := s.saleRepo.GetSaleTotals(ctx, req.SaleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("sale " + req.SaleID + " not found")
		}
		return nil, fmt.Errorf("failed to load sale %s: %w", req.SaleID, err)
	}
	if err := validateSaleTotals(sale.Subtotal, sale.Discount, sale.Tax, sale.Total); err != nil {
		return nil, err
	}

	saleID := req.SaleID
	h := entryHeader{
		source:      domain.SourceRefund,
		sourceID:    &saleID,
		referenceNo: "REFUND-" + saleID,
		entryDate:   req.RefundDate,
		description: "Refund of sale " + saleID,
	}
	if posted, err := s.preflight(ctx, h); err != nil {
		return nil, err
	} else if posted {
		logger.Info("Refund already posted, skipping", slog.String("sale_id", saleID))
		return &dto.PostingResult{AlreadyPosted: true}, nil
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	revenue := sale.Total.Add(sale.Discount).Sub(sale.Tax)
	specs := []lineSpec{
		{accountCode: s.chart.Cash, credit: sale.Total, description: "Refund paid out"},
		{accountCode: s.chart.Revenue, debit: revenue, description: "Revenue reversal"},
	}
	if sale.Discount.IsPositive() {
		specs = append(specs, lineSpec{accountCode: s.chart.SalesDiscount, credit: sale.Discount, description: "Discount reversal"})
	}
	if sale.Tax.IsPositive() {
		specs = append(specs, lineSpec{accountCode: s.chart.TaxPayable, debit: sale.Tax, description: "Output tax reversal"})
	}

	entry, err := s.writeEntry(ctx, tx, h, specs, decimal.Zero, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Info("Refund posted concurrently, absorbing duplicate", slog.String("sale_id", saleID))
			return &dto.PostingResult{AlreadyPosted: true}, nil
		}
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	logger.Info("Posted refund",
		slog.String("sale_id", saleID),
		slog.String("entry_number", entry.EntryNumber),
	)
	return &dto.PostingResult{EntryID: entry.EntryID, EntryNumber: entry.EntryNumber}, nil
}

// GetEntry loads a journal entry with its lines.
func (s *postingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID + " not found")
		}
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

func cogsHeader(saleID string, entryDate time.Time) entryHeader {
	id := saleID
	return entryHeader{
		source:      domain.SourceCOGS,
		sourceID:    &id,
		referenceNo: "COGS-" + saleID,
		entryDate:   entryDate,
		description: "COGS for sale " + saleID,
	}
}

// validateSaleTotals checks the stored header amounts are usable: non-negative
// components, a positive total, and the subtotal-discount+tax identity holding
// to within a cent.
func validateSaleTotals(subtotal, discount, tax, total decimal.Decimal) error {
	if subtotal.IsNegative() || discount.IsNegative() || tax.IsNegative() {
		return apperrors.NewValidationFailedError("sale amounts must be non-negative", nil)
	}
	if discount.GreaterThan(subtotal) {
		return apperrors.NewValidationFailedError("sale discount exceeds subtotal", nil)
	}
	if !total.IsPositive() {
		return apperrors.NewValidationFailedError("sale total must be positive", nil)
	}
	expected := subtotal.Sub(discount).Add(tax)
	if total.Sub(expected).Abs().GreaterThan(totalsTolerance) {
		return apperrors.NewValidationFailedError(
			fmt.Sprintf("sale totals are inconsistent: total %s, expected %s", total.String(), expected.String()), nil)
	}
	return nil
}

func defaultDescription(given, fallback string) string {
	if given != "" {
		return given
	}
	return fallback
}
