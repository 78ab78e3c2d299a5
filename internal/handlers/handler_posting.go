package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborpos/ledger/internal/apperrors"
	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/internal/dto"
	"github.com/harborpos/ledger/internal/middleware"
)

// postingHandler handles HTTP requests that trigger ledger postings.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
	defaultActorID string
}

// newPostingHandler creates a new postingHandler.
func newPostingHandler(postingService portssvc.PostingSvcFacade, defaultActorID string) *postingHandler {
	return &postingHandler{
		postingService: postingService,
		defaultActorID: defaultActorID,
	}
}

func (h *postingHandler) postSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.PostSaleRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for PostSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := middleware.ActorID(c, h.defaultActorID)
	result, err := h.postingService.PostSale(c.Request.Context(), req, actorID)
	if err != nil {
		respondPostingError(c, logger, "sale", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *postingHandler) postExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.PostExpenseRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for PostExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := middleware.ActorID(c, h.defaultActorID)
	result, err := h.postingService.PostExpense(c.Request.Context(), req, actorID)
	if err != nil {
		respondPostingError(c, logger, "expense", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *postingHandler) postManualEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.PostManualEntryRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for PostManualEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := middleware.ActorID(c, h.defaultActorID)
	result, err := h.postingService.PostManualEntry(c.Request.Context(), req, actorID)
	if err != nil {
		respondPostingError(c, logger, "manual entry", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *postingHandler) postCOGS(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.PostCOGSRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for PostCOGS", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := middleware.ActorID(c, h.defaultActorID)
	result, err := h.postingService.PostCOGS(c.Request.Context(), req, actorID)
	if err != nil {
		respondPostingError(c, logger, "COGS", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *postingHandler) postRefund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.PostRefundRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for PostRefund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := middleware.ActorID(c, h.defaultActorID)
	result, err := h.postingService.PostRefund(c.Request.Context(), req, actorID)
	if err != nil {
		respondPostingError(c, logger, "refund", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *postingHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.postingService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
			return
		}
		logger.Error("Failed to get journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal entry"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// respondPostingError maps posting errors to HTTP codes. A locked period is a
// 422 so callers can distinguish it from payload validation failures.
func respondPostingError(c *gin.Context, logger *slog.Logger, operation string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrPeriodLocked):
		logger.Warn("Posting rejected, period locked", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Posting validation failed", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Posting source not found", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Posting conflict", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Posting conflicted with a concurrent request, retry"})
	default:
		logger.Error("Posting failed", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post " + operation})
	}
}

// registerPostingRoutes registers posting specific routes
func registerPostingRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade, defaultActorID string) {
	handler := newPostingHandler(postingService, defaultActorID)

	postings := group.Group("/postings")
	{
		postings.POST("/sales", handler.postSale)
		postings.POST("/expenses", handler.postExpense)
		postings.POST("/manual", handler.postManualEntry)
		postings.POST("/cogs", handler.postCOGS)
		postings.POST("/refunds", handler.postRefund)
	}

	group.GET("/entries/:entryID", handler.getEntry)
}
