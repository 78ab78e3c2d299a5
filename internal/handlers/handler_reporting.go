package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/internal/dto"
	"github.com/harborpos/ledger/internal/middleware"
)

// reportingHandler handles HTTP requests for read-side aggregate reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.GetTrialBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve trial balance"})
		return
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}
	c.JSON(http.StatusOK, dto.TrialBalanceResponse{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	})
}

func (h *reportingHandler) getTaxTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start, end, ok := parseDateRange(c)
	if !ok {
		return
	}

	totals, err := h.reportingService.GetTaxTotals(c.Request.Context(), start, end)
	if err != nil {
		logger.Error("Failed to get tax totals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tax totals"})
		return
	}
	c.JSON(http.StatusOK, dto.TaxTotalsResponse{
		OutputTax: totals.OutputTax,
		InputTax:  totals.InputTax,
		NetTax:    totals.NetTax,
	})
}

// parseDateRange reads from/to query params in YYYY-MM-DD form. It writes the
// error response itself when parsing fails.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'from' date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing 'to' date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' date precedes 'from' date"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// registerReportingRoutes registers reporting specific routes
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	handler := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", handler.getTrialBalance)
		reports.GET("/tax-totals", handler.getTaxTotals)
	}
}
