package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/internal/middleware"
)

// accountHandler serves the reference chart of accounts.
type accountHandler struct {
	resolver portssvc.AccountResolverFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(resolver portssvc.AccountResolverFacade) *accountHandler {
	return &accountHandler{resolver: resolver}
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.resolver.ListAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve accounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// registerAccountRoutes registers account specific routes
func registerAccountRoutes(group *gin.RouterGroup, resolver portssvc.AccountResolverFacade) {
	handler := newAccountHandler(resolver)

	group.GET("/accounts", handler.listAccounts)
}
