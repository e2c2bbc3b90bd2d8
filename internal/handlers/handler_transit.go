package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easyfibu/kassenbuch-service/internal/core/domain"
	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// transitHandler handles HTTP requests for the pass-through item register.
type transitHandler struct {
	transitService portssvc.TransitSvcFacade
}

func newTransitHandler(ts portssvc.TransitSvcFacade) *transitHandler {
	return &transitHandler{transitService: ts}
}

// registerTransitRoutes registers the transit routes on the organization group.
func registerTransitRoutes(org *gin.RouterGroup, transitService portssvc.TransitSvcFacade) {
	h := newTransitHandler(transitService)

	items := org.Group("/transit-items")
	{
		items.POST("", h.receiveItem)
		items.GET("", h.listItems)
		items.GET("/open-balance", h.getOpenBalance)
		items.GET("/summary", h.getBeneficiarySummary)
		items.GET("/:itemID", h.getItem)
		items.POST("/:itemID/disburse", h.disburseItem)
	}

	org.GET("/accounts/:number/transit-items", h.listItemsByAccount)
}

// receiveItem godoc
// @Summary Record a received pass-through item
// @Description Records money held for a third party on a transit account
// @Tags transit
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param item body dto.ReceiveTransitRequest true "Item details"
// @Success 201 {object} dto.TransitItemResponse
// @Failure 400 {object} map[string]string "Invalid item or non-transit account"
// @Security BearerAuth
// @Router /organizations/{orgID}/transit-items [post]
func (h *transitHandler) receiveItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.ReceiveTransitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReceiveItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	item, err := h.transitService.ReceiveItem(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record transit item")
		return
	}

	logger.Info("Transit item received", slog.String("item_id", item.ItemID))
	c.JSON(http.StatusCreated, dto.ToTransitItemResponse(item))
}

// listItems godoc
// @Summary List transit items
// @Tags transit
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param status query string false "Filter by status" Enums(OPEN, PARTIALLY_SETTLED, SETTLED)
// @Success 200 {array} dto.TransitItemResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/transit-items [get]
func (h *transitHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	status := domain.TransitStatus(c.Query("status"))

	switch status {
	case "", domain.TransitOpen, domain.TransitPartiallySettled, domain.TransitSettled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	items, err := h.transitService.ListItems(c.Request.Context(), orgID, status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transit items")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransitItemResponses(items))
}

// getItem godoc
// @Summary Get a transit item
// @Tags transit
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param itemID path string true "Item ID"
// @Success 200 {object} dto.TransitItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/transit-items/{itemID} [get]
func (h *transitHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	itemID := c.Param("itemID")

	item, err := h.transitService.GetItem(c.Request.Context(), orgID, itemID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve transit item")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransitItemResponse(item))
}

// disburseItem godoc
// @Summary Disburse a transit item
// @Description Records a forwarding of funds; with postToLedger the matching ledger entry is written atomically
// @Tags transit
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param itemID path string true "Item ID"
// @Param disbursement body dto.DisburseTransitRequest true "Disbursement details"
// @Success 200 {object} dto.TransitItemResponse
// @Failure 409 {object} map[string]string "Over-disbursement, settled item or closed year"
// @Security BearerAuth
// @Router /organizations/{orgID}/transit-items/{itemID}/disburse [post]
func (h *transitHandler) disburseItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	itemID := c.Param("itemID")

	var req dto.DisburseTransitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DisburseItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	item, err := h.transitService.DisburseItem(c.Request.Context(), orgID, itemID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to disburse transit item")
		return
	}

	logger.Info("Transit item disbursed", slog.String("item_id", itemID), slog.String("status", string(item.Status)))
	c.JSON(http.StatusOK, dto.ToTransitItemResponse(item))
}

// getOpenBalance godoc
// @Summary Sum the outstanding transit balance
// @Tags transit
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.OpenTransitBalanceResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/transit-items/open-balance [get]
func (h *transitHandler) getOpenBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	balance, count, err := h.transitService.OpenBalance(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to derive open transit balance")
		return
	}
	c.JSON(http.StatusOK, dto.OpenTransitBalanceResponse{
		OrganizationID: orgID,
		OpenBalance:    balance,
		OpenItems:      count,
	})
}

// getBeneficiarySummary godoc
// @Summary Aggregate transit items per beneficiary
// @Tags transit
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {array} dto.BeneficiarySummaryResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/transit-items/summary [get]
func (h *transitHandler) getBeneficiarySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	summaries, err := h.transitService.SummaryByBeneficiary(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build beneficiary summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToBeneficiarySummaryResponses(summaries))
}

// listItemsByAccount godoc
// @Summary List transit items booked on one account
// @Tags transit
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param number path string true "Account number"
// @Success 200 {array} dto.TransitItemResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/accounts/{number}/transit-items [get]
func (h *transitHandler) listItemsByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	number := c.Param("number")

	items, err := h.transitService.ListItemsByAccount(c.Request.Context(), orgID, number)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transit items")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransitItemResponses(items))
}
