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

// periodHandler handles HTTP requests for accounting period administration.
type periodHandler struct {
	periodService  portssvc.PeriodSvcFacade
	defaultActorID string
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(periodService portssvc.PeriodSvcFacade, defaultActorID string) *periodHandler {
	return &periodHandler{
		periodService:  periodService,
		defaultActorID: defaultActorID,
	}
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ClosePeriodRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ClosePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID := middleware.ActorID(c, h.defaultActorID)
	periodID, err := h.periodService.ClosePeriod(c.Request.Context(), req.StartDate, req.EndDate, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error closing period", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to close period", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close period"})
		return
	}
	c.JSON(http.StatusOK, dto.ClosePeriodResponse{PeriodID: periodID})
}

func (h *periodHandler) lockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	actorID := middleware.ActorID(c, h.defaultActorID)
	if err := h.periodService.LockPeriod(c.Request.Context(), periodID, actorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Period not found for lock", slog.String("period_id", periodID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Accounting period not found"})
			return
		}
		logger.Error("Failed to lock period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock period"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"periodID": periodID, "status": "LOCKED"})
}

// registerPeriodRoutes registers period specific routes
func registerPeriodRoutes(group *gin.RouterGroup, periodService portssvc.PeriodSvcFacade, defaultActorID string) {
	handler := newPeriodHandler(periodService, defaultActorID)

	periods := group.Group("/periods")
	{
		periods.POST("/close", handler.closePeriod)
		periods.POST("/:periodID/lock", handler.lockPeriod)
	}
}
