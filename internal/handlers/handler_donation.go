package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// donationHandler handles HTTP requests for donation protocols.
type donationHandler struct {
	donationService portssvc.DonationSvcFacade
}

func newDonationHandler(ds portssvc.DonationSvcFacade) *donationHandler {
	return &donationHandler{donationService: ds}
}

// registerDonationRoutes registers the donation routes on the organization group.
func registerDonationRoutes(org *gin.RouterGroup, donationService portssvc.DonationSvcFacade) {
	h := newDonationHandler(donationService)

	donations := org.Group("/donations")
	{
		donations.POST("", h.createProtocol)
		donations.GET("", h.listProtocols)
		donations.GET("/:protocolID", h.getProtocol)
	}
}

// createProtocol godoc
// @Summary Record a donation protocol
// @Description Records a counted collection; line sums and the total are derived from the denomination details
// @Tags donations
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param protocol body dto.CreateDonationRequest true "Protocol details"
// @Success 201 {object} dto.DonationResponse
// @Failure 400 {object} map[string]string "Invalid protocol"
// @Security BearerAuth
// @Router /organizations/{orgID}/donations [post]
func (h *donationHandler) createProtocol(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProtocol", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	protocol, err := h.donationService.CreateProtocol(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record donation protocol")
		return
	}

	logger.Info("Donation protocol recorded", slog.String("protocol_id", protocol.ProtocolID))
	c.JSON(http.StatusCreated, dto.ToDonationResponse(protocol))
}

// listProtocols godoc
// @Summary List donation protocols
// @Description Lists all protocols, or those within a date range when from/to are given
// @Tags donations
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} dto.DonationResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/donations [get]
func (h *donationHandler) listProtocols(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected YYYY-MM-DD"})
			return
		}
		to, err := time.Parse("2006-01-02", c.Query("to"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected YYYY-MM-DD"})
			return
		}
		protocols, err := h.donationService.ListProtocolsByDateRange(c.Request.Context(), orgID, from, to)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to list donation protocols")
			return
		}
		c.JSON(http.StatusOK, dto.ToDonationResponses(protocols))
		return
	}

	protocols, err := h.donationService.ListProtocols(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list donation protocols")
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponses(protocols))
}

// getProtocol godoc
// @Summary Get a donation protocol
// @Tags donations
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param protocolID path string true "Protocol ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} map[string]string "Protocol not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/donations/{protocolID} [get]
func (h *donationHandler) getProtocol(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	protocolID := c.Param("protocolID")

	protocol, err := h.donationService.GetProtocol(c.Request.Context(), orgID, protocolID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve donation protocol")
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(protocol))
}
