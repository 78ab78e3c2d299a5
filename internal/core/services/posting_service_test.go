package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/internal/core/services"
	"github.com/harborpos/ledger/internal/dto"
)

// --- Mock JournalEntryRepository ---
type MockJournalEntryRepository struct {
	mock.Mock
}

var _ portsrepo.JournalEntryRepository = (*MockJournalEntryRepository)(nil)

func (m *MockJournalEntryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalEntryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) IsPosted(ctx context.Context, source domain.EntrySource, sourceID *string, referenceNo string) (bool, error) {
	args := m.Called(ctx, source, sourceID, referenceNo)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalEntryRepository) NextEntryNumber(ctx context.Context, tx pgx.Tx, date time.Time) (string, error) {
	args := m.Called(ctx, tx, date)
	return args.String(0), args.Error(1)
}

func (m *MockJournalEntryRepository) InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) InsertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, lines)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) MarkPosted(ctx context.Context, tx pgx.Tx, entryID string, actorID string, at time.Time) error {
	args := m.Called(ctx, tx, entryID, actorID, at)
	return args.Error(0)
}

func (m *MockJournalEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

// --- Mock SaleReader ---
type MockSaleReader struct {
	mock.Mock
}

var _ portsrepo.SaleReader = (*MockSaleReader)(nil)

func (m *MockSaleReader) GetSaleTotals(ctx context.Context, saleID string) (*domain.SaleTotals, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleTotals), args.Error(1)
}

func (m *MockSaleReader) ListItemCosts(ctx context.Context, saleID string) ([]domain.SaleItemCost, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleItemCost), args.Error(1)
}

// --- Mock AccountResolver ---
type MockAccountResolver struct {
	mock.Mock
}

var _ portssvc.AccountResolverFacade = (*MockAccountResolver)(nil)

func (m *MockAccountResolver) ResolveAccountID(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockAccountResolver) ResolveExpenseAccount(ctx context.Context, categoryID *string) (string, error) {
	args := m.Called(ctx, categoryID)
	return args.String(0), args.Error(1)
}

func (m *MockAccountResolver) ResolveDisbursementAccount(paymentMethod string) string {
	args := m.Called(paymentMethod)
	return args.String(0)
}

func (m *MockAccountResolver) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

func (m *MockPeriodService) IsPeriodLocked(ctx context.Context, date time.Time) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodService) ResolvePeriod(ctx context.Context, date time.Time) (*string, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, startDate, endDate time.Time, actorID string) (string, error) {
	args := m.Called(ctx, startDate, endDate, actorID)
	return args.String(0), args.Error(1)
}

func (m *MockPeriodService) LockPeriod(ctx context.Context, periodID string, actorID string) error {
	args := m.Called(ctx, periodID, actorID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalEntryRepository
	mockSaleRepo    *MockSaleReader
	mockResolver    *MockAccountResolver
	mockPeriodSvc   *MockPeriodService
	service         portssvc.PostingSvcFacade
	chart           domain.ChartOfAccounts
	actorID         string
	saleDate        time.Time
	insertedEntries []domain.JournalEntry
	insertedLines   [][]domain.JournalLine
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalEntryRepository)
	suite.mockSaleRepo = new(MockSaleReader)
	suite.mockResolver = new(MockAccountResolver)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.chart = domain.DefaultChart()
	suite.service = services.NewPostingService(suite.mockJournalRepo, suite.mockSaleRepo, suite.mockResolver, suite.mockPeriodSvc, suite.chart)

	suite.actorID = uuid.NewString()
	suite.saleDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	suite.insertedEntries = nil
	suite.insertedLines = nil
}

// expectOpenPeriod makes the period service answer unlocked with no period record.
func (suite *PostingServiceTestSuite) expectOpenPeriod() {
	suite.mockPeriodSvc.On("IsPeriodLocked", mock.Anything, mock.Anything).Return(false, nil)
	suite.mockPeriodSvc.On("ResolvePeriod", mock.Anything, mock.Anything).Return(nil, nil)
}

// expectWriteEntry wires the transactional write path, capturing inserted rows.
func (suite *PostingServiceTestSuite) expectWriteEntry() {
	suite.mockJournalRepo.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, mock.Anything).Return("JE-20260315-0001", nil)
	suite.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			suite.insertedEntries = append(suite.insertedEntries, args.Get(2).(domain.JournalEntry))
		}).Return(nil)
	suite.mockJournalRepo.On("InsertLines", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) {
			suite.insertedLines = append(suite.insertedLines, args.Get(2).([]domain.JournalLine))
		}).Return(nil)
	suite.mockJournalRepo.On("MarkPosted", mock.Anything, mock.Anything, mock.Anything, suite.actorID, mock.Anything).Return(nil)
	suite.mockJournalRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	suite.mockJournalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *PostingServiceTestSuite) resolveCode(code string) string {
	id := uuid.NewString()
	suite.mockResolver.On("ResolveAccountID", mock.Anything, code).Return(id, nil)
	return id
}

// lineAmounts returns the debit and credit booked against an account id.
func lineAmounts(lines []domain.JournalLine, accountID string) (decimal.Decimal, decimal.Decimal) {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, line := range lines {
		if line.AccountID == accountID {
			debit = debit.Add(line.DebitAmount)
			credit = credit.Add(line.CreditAmount)
		}
	}
	return debit, credit
}

func saleRequest(saleID string, date time.Time) dto.PostSaleRequest {
	return dto.PostSaleRequest{
		SaleID:        saleID,
		Subtotal:      decimal.NewFromInt(1000),
		Discount:      decimal.NewFromInt(100),
		Tax:           decimal.NewFromInt(160),
		Total:         decimal.NewFromInt(1060),
		PaymentMethod: "cash",
		SaleDate:      date,
	}
}

// --- Sale ---

func (suite *PostingServiceTestSuite) TestPostSale_Success() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := saleRequest(saleID, suite.saleDate)

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceSale, mock.Anything, "SALE-"+saleID).Return(false, nil).Once()
	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceCOGS, mock.Anything, "COGS-"+saleID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()
	cashID := suite.resolveCode(suite.chart.Cash)
	revenueID := suite.resolveCode(suite.chart.Revenue)
	discountID := suite.resolveCode(suite.chart.SalesDiscount)
	taxID := suite.resolveCode(suite.chart.TaxPayable)
	// No costed items, so no COGS entry alongside the sale.
	suite.mockSaleRepo.On("ListItemCosts", mock.Anything, saleID).Return([]domain.SaleItemCost{}, nil).Once()

	result, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.False(result.AlreadyPosted)
	suite.NotEmpty(result.EntryID)
	suite.Equal("JE-20260315-0001", result.EntryNumber)

	suite.Require().Len(suite.insertedEntries, 1)
	entry := suite.insertedEntries[0]
	suite.Equal(domain.SourceSale, entry.Source)
	suite.Equal("SALE-"+saleID, entry.ReferenceNo)
	suite.Equal(domain.Draft, entry.Status)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(1160)), "total debit %s", entry.TotalDebit)
	suite.True(entry.TotalDebit.Equal(entry.TotalCredit))

	suite.Require().Len(suite.insertedLines, 1)
	lines := suite.insertedLines[0]
	debit, _ := lineAmounts(lines, cashID)
	suite.True(debit.Equal(decimal.NewFromInt(1060)))
	_, credit := lineAmounts(lines, revenueID)
	suite.True(credit.Equal(decimal.NewFromInt(1000)))
	debit, _ = lineAmounts(lines, discountID)
	suite.True(debit.Equal(decimal.NewFromInt(100)))
	_, credit = lineAmounts(lines, taxID)
	suite.True(credit.Equal(decimal.NewFromInt(160)))

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockSaleRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostSale_AlreadyPosted() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := saleRequest(saleID, suite.saleDate)

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceSale, mock.Anything, "SALE-"+saleID).Return(true, nil).Once()

	result, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(result.AlreadyPosted)
	suite.Empty(result.EntryID)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockPeriodSvc.AssertNotCalled(suite.T(), "IsPeriodLocked", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostSale_PeriodLocked() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := saleRequest(saleID, suite.saleDate)

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceSale, mock.Anything, "SALE-"+saleID).Return(false, nil).Once()
	suite.mockPeriodSvc.On("IsPeriodLocked", mock.Anything, suite.saleDate).Return(true, nil).Once()

	_, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPeriodLocked)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostSale_InconsistentTotals() {
	ctx := context.Background()
	req := saleRequest(uuid.NewString(), suite.saleDate)
	req.Total = decimal.NewFromInt(900)

	_, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "IsPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostSale_CreditSaleDebitsReceivable() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := dto.PostSaleRequest{
		SaleID:        saleID,
		Subtotal:      decimal.NewFromInt(500),
		Tax:           decimal.NewFromInt(80),
		Total:         decimal.NewFromInt(580),
		PaymentMethod: "credit",
		SaleDate:      suite.saleDate,
	}

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceSale, mock.Anything, "SALE-"+saleID).Return(false, nil).Once()
	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceCOGS, mock.Anything, "COGS-"+saleID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()
	receivableID := suite.resolveCode(suite.chart.AccountsReceivable)
	suite.resolveCode(suite.chart.Revenue)
	suite.resolveCode(suite.chart.TaxPayable)
	suite.mockSaleRepo.On("ListItemCosts", mock.Anything, saleID).Return([]domain.SaleItemCost{}, nil).Once()

	_, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(suite.insertedLines, 1)
	debit, _ := lineAmounts(suite.insertedLines[0], receivableID)
	suite.True(debit.Equal(decimal.NewFromInt(580)))
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveAccountID", mock.Anything, suite.chart.Cash)
}

func (suite *PostingServiceTestSuite) TestPostSale_TriggersCOGSInSameTransaction() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := saleRequest(saleID, suite.saleDate)

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceSale, mock.Anything, "SALE-"+saleID).Return(false, nil).Once()
	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceCOGS, mock.Anything, "COGS-"+saleID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()
	suite.resolveCode(suite.chart.Cash)
	suite.resolveCode(suite.chart.Revenue)
	suite.resolveCode(suite.chart.SalesDiscount)
	suite.resolveCode(suite.chart.TaxPayable)
	cogsID := suite.resolveCode(suite.chart.CostOfGoodsSold)
	inventoryID := suite.resolveCode(suite.chart.Inventory)
	suite.mockSaleRepo.On("ListItemCosts", mock.Anything, saleID).Return([]domain.SaleItemCost{
		{Quantity: decimal.NewFromInt(2), CostPrice: decimal.NewFromInt(150)},
		{Quantity: decimal.NewFromInt(1), CostPrice: decimal.NewFromInt(100)},
	}, nil).Once()

	_, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(suite.insertedEntries, 2)
	cogsEntry := suite.insertedEntries[1]
	suite.Equal(domain.SourceCOGS, cogsEntry.Source)
	suite.True(cogsEntry.TotalDebit.Equal(decimal.NewFromInt(400)))

	suite.Require().Len(suite.insertedLines, 2)
	debit, _ := lineAmounts(suite.insertedLines[1], cogsID)
	suite.True(debit.Equal(decimal.NewFromInt(400)))
	_, credit := lineAmounts(suite.insertedLines[1], inventoryID)
	suite.True(credit.Equal(decimal.NewFromInt(400)))

	// One transaction for both entries.
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "Begin", 1)
	suite.mockJournalRepo.AssertNumberOfCalls(suite.T(), "Commit", 1)
}

func (suite *PostingServiceTestSuite) TestPostSale_DuplicateOnInsertAbsorbed() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := saleRequest(saleID, suite.saleDate)

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceSale, mock.Anything, "SALE-"+saleID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.mockJournalRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, mock.Anything).Return("JE-20260315-0001", nil).Once()
	suite.resolveCode(suite.chart.Cash)
	suite.resolveCode(suite.chart.Revenue)
	suite.resolveCode(suite.chart.SalesDiscount)
	suite.resolveCode(suite.chart.TaxPayable)
	dupErr := apperrors.NewAppError(409, "entry already posted", apperrors.ErrDuplicate)
	suite.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything, mock.Anything).Return(dupErr).Once()
	suite.mockJournalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(result.AlreadyPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- Expense ---

func (suite *PostingServiceTestSuite) TestPostExpense_Success() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	req := dto.PostExpenseRequest{
		ExpenseID:     expenseID,
		Gross:         decimal.NewFromInt(500),
		Tax:           decimal.NewFromInt(80),
		PaymentMethod: "bank_transfer",
		ExpenseDate:   suite.saleDate,
	}

	expenseAccountID := uuid.NewString()
	suite.mockResolver.On("ResolveExpenseAccount", mock.Anything, mock.Anything).Return(expenseAccountID, nil).Once()
	suite.mockResolver.On("ResolveDisbursementAccount", "bank_transfer").Return(suite.chart.Bank).Once()
	bankID := suite.resolveCode(suite.chart.Bank)
	taxRecoverableID := suite.resolveCode(suite.chart.TaxRecoverable)
	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceExpense, mock.Anything, "EXP-"+expenseID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()

	result, err := suite.service.PostExpense(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.False(result.AlreadyPosted)

	suite.Require().Len(suite.insertedLines, 1)
	lines := suite.insertedLines[0]
	debit, _ := lineAmounts(lines, expenseAccountID)
	suite.True(debit.Equal(decimal.NewFromInt(420)), "net expense %s", debit)
	debit, _ = lineAmounts(lines, taxRecoverableID)
	suite.True(debit.Equal(decimal.NewFromInt(80)))
	_, credit := lineAmounts(lines, bankID)
	suite.True(credit.Equal(decimal.NewFromInt(500)))
}

func (suite *PostingServiceTestSuite) TestPostExpense_TaxExceedsGross() {
	ctx := context.Background()
	req := dto.PostExpenseRequest{
		ExpenseID:     uuid.NewString(),
		Gross:         decimal.NewFromInt(100),
		Tax:           decimal.NewFromInt(120),
		PaymentMethod: "cash",
		ExpenseDate:   suite.saleDate,
	}

	_, err := suite.service.PostExpense(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostExpenseInTx_NeverOwnsTransaction() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	req := dto.PostExpenseRequest{
		ExpenseID:     expenseID,
		Gross:         decimal.NewFromInt(200),
		PaymentMethod: "cash",
		ExpenseDate:   suite.saleDate,
	}

	expenseAccountID := uuid.NewString()
	suite.mockResolver.On("ResolveExpenseAccount", mock.Anything, mock.Anything).Return(expenseAccountID, nil).Once()
	suite.mockResolver.On("ResolveDisbursementAccount", "cash").Return(suite.chart.Cash).Once()
	suite.resolveCode(suite.chart.Cash)
	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceExpense, mock.Anything, "EXP-"+expenseID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.mockJournalRepo.On("NextEntryNumber", mock.Anything, mock.Anything, mock.Anything).Return("JE-20260315-0004", nil).Once()
	suite.mockJournalRepo.On("InsertEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("InsertLines", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("MarkPosted", mock.Anything, mock.Anything, mock.Anything, suite.actorID, mock.Anything).Return(nil).Once()

	result, err := suite.service.PostExpenseInTx(ctx, nil, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("JE-20260315-0004", result.EntryNumber)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Rollback", mock.Anything, mock.Anything)
}

// --- Manual entry ---

func (suite *PostingServiceTestSuite) manualRequest(debit, credit decimal.Decimal) dto.PostManualEntryRequest {
	cashCode := suite.chart.Cash
	revenueCode := suite.chart.Revenue
	return dto.PostManualEntryRequest{
		EntryDate:   suite.saleDate,
		Description: "Opening balance adjustment",
		Lines: []dto.ManualLineRequest{
			{AccountCode: &cashCode, Debit: debit},
			{AccountCode: &revenueCode, Credit: credit},
		},
	}
}

func (suite *PostingServiceTestSuite) TestPostManualEntry_Success() {
	ctx := context.Background()
	req := suite.manualRequest(decimal.NewFromInt(250), decimal.NewFromInt(250))

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceManual, mock.Anything, mock.Anything).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()
	suite.resolveCode(suite.chart.Cash)
	suite.resolveCode(suite.chart.Revenue)

	result, err := suite.service.PostManualEntry(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.NotEmpty(result.EntryID)
	suite.Require().Len(suite.insertedEntries, 1)
	suite.Equal(domain.SourceManual, suite.insertedEntries[0].Source)
	suite.Contains(suite.insertedEntries[0].ReferenceNo, "MAN-")
}

func (suite *PostingServiceTestSuite) TestPostManualEntry_WithinTolerance() {
	ctx := context.Background()
	req := suite.manualRequest(decimal.NewFromFloat(100.004), decimal.NewFromInt(100))

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceManual, mock.Anything, mock.Anything).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()
	suite.resolveCode(suite.chart.Cash)
	suite.resolveCode(suite.chart.Revenue)

	_, err := suite.service.PostManualEntry(ctx, req, suite.actorID)

	suite.Require().NoError(err)
}

func (suite *PostingServiceTestSuite) TestPostManualEntry_BeyondToleranceRejected() {
	ctx := context.Background()
	req := suite.manualRequest(decimal.NewFromFloat(100.02), decimal.NewFromInt(100))

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceManual, mock.Anything, mock.Anything).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.mockJournalRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.resolveCode(suite.chart.Cash)
	suite.resolveCode(suite.chart.Revenue)

	_, err := suite.service.PostManualEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "InsertEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostManualEntry_LineWithoutAccount() {
	ctx := context.Background()
	req := dto.PostManualEntryRequest{
		EntryDate:   suite.saleDate,
		Description: "Bad entry",
		Lines: []dto.ManualLineRequest{
			{Debit: decimal.NewFromInt(10)},
			{Credit: decimal.NewFromInt(10)},
		},
	}

	_, err := suite.service.PostManualEntry(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostManualEntry_SuppliedReferenceIsIdempotent() {
	ctx := context.Background()
	req := suite.manualRequest(decimal.NewFromInt(50), decimal.NewFromInt(50))
	req.ReferenceNo = "MAN-adjust-2026-03"

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceManual, mock.Anything, "MAN-adjust-2026-03").Return(true, nil).Once()

	result, err := suite.service.PostManualEntry(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(result.AlreadyPosted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- COGS ---

func (suite *PostingServiceTestSuite) TestPostCOGS_ZeroCostProducesNoEntry() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := dto.PostCOGSRequest{SaleID: saleID, EntryDate: suite.saleDate}

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceCOGS, mock.Anything, "COGS-"+saleID).Return(false, nil).Once()
	suite.mockPeriodSvc.On("IsPeriodLocked", mock.Anything, suite.saleDate).Return(false, nil).Once()
	suite.mockSaleRepo.On("ListItemCosts", mock.Anything, saleID).Return([]domain.SaleItemCost{
		{Quantity: decimal.NewFromInt(3), CostPrice: decimal.Zero},
	}, nil).Once()

	result, err := suite.service.PostCOGS(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.False(result.AlreadyPosted)
	suite.Empty(result.EntryID)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostCOGS_Success() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := dto.PostCOGSRequest{SaleID: saleID, EntryDate: suite.saleDate}

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceCOGS, mock.Anything, "COGS-"+saleID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()
	suite.resolveCode(suite.chart.CostOfGoodsSold)
	suite.resolveCode(suite.chart.Inventory)
	suite.mockSaleRepo.On("ListItemCosts", mock.Anything, saleID).Return([]domain.SaleItemCost{
		{Quantity: decimal.NewFromFloat(2.5), CostPrice: decimal.NewFromInt(40)},
	}, nil).Once()

	result, err := suite.service.PostCOGS(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.NotEmpty(result.EntryID)
	suite.Require().Len(suite.insertedEntries, 1)
	suite.True(suite.insertedEntries[0].TotalDebit.Equal(decimal.NewFromInt(100)))
}

// --- Refund ---

func (suite *PostingServiceTestSuite) TestPostRefund_Success() {
	ctx := context.Background()
	saleID := uuid.NewString()
	refundDate := suite.saleDate.AddDate(0, 0, 2)
	req := dto.PostRefundRequest{SaleID: saleID, RefundDate: refundDate}

	suite.mockSaleRepo.On("GetSaleTotals", mock.Anything, saleID).Return(&domain.SaleTotals{
		SaleID:        saleID,
		Subtotal:      decimal.NewFromInt(1000),
		Discount:      decimal.NewFromInt(100),
		Tax:           decimal.NewFromInt(160),
		Total:         decimal.NewFromInt(1060),
		PaymentMethod: "cash",
		SaleDate:      suite.saleDate,
	}, nil).Once()
	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceRefund, mock.Anything, "REFUND-"+saleID).Return(false, nil).Once()
	suite.expectOpenPeriod()
	suite.expectWriteEntry()
	cashID := suite.resolveCode(suite.chart.Cash)
	revenueID := suite.resolveCode(suite.chart.Revenue)
	discountID := suite.resolveCode(suite.chart.SalesDiscount)
	taxID := suite.resolveCode(suite.chart.TaxPayable)

	result, err := suite.service.PostRefund(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.False(result.AlreadyPosted)

	suite.Require().Len(suite.insertedLines, 1)
	lines := suite.insertedLines[0]
	_, credit := lineAmounts(lines, cashID)
	suite.True(credit.Equal(decimal.NewFromInt(1060)))
	debit, _ := lineAmounts(lines, revenueID)
	suite.True(debit.Equal(decimal.NewFromInt(1000)))
	_, credit = lineAmounts(lines, discountID)
	suite.True(credit.Equal(decimal.NewFromInt(100)))
	debit, _ = lineAmounts(lines, taxID)
	suite.True(debit.Equal(decimal.NewFromInt(160)))

	suite.Require().Len(suite.insertedEntries, 1)
	entry := suite.insertedEntries[0]
	suite.Equal(domain.SourceRefund, entry.Source)
	suite.True(entry.TotalDebit.Equal(entry.TotalCredit))
	suite.True(entry.EntryDate.Equal(refundDate))
}

func (suite *PostingServiceTestSuite) TestPostRefund_SaleNotFound() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := dto.PostRefundRequest{SaleID: saleID, RefundDate: suite.saleDate}

	suite.mockSaleRepo.On("GetSaleTotals", mock.Anything, saleID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.PostRefund(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- GetEntry ---

func (suite *PostingServiceTestSuite) TestGetEntry_Success() {
	ctx := context.Background()
	entryID := uuid.NewString()
	stored := &domain.JournalEntry{EntryID: entryID, EntryNumber: "JE-20260315-0007", Source: domain.SourceSale}
	lines := []domain.JournalLine{{LineID: uuid.NewString(), EntryID: entryID}}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(stored, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entryID).Return(lines, nil).Once()

	entry, err := suite.service.GetEntry(ctx, entryID)

	suite.Require().NoError(err)
	suite.Equal("JE-20260315-0007", entry.EntryNumber)
	suite.Len(entry.Lines, 1)
}

func (suite *PostingServiceTestSuite) TestGetEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetEntry(ctx, entryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestPostSale_RepoErrorPropagates() {
	ctx := context.Background()
	saleID := uuid.NewString()
	req := saleRequest(saleID, suite.saleDate)
	repoErr := assert.AnError

	suite.mockJournalRepo.On("IsPosted", mock.Anything, domain.SourceSale, mock.Anything, "SALE-"+saleID).Return(false, repoErr).Once()

	_, err := suite.service.PostSale(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), repoErr.Error())
}

// --- Run Test Suite ---
func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
