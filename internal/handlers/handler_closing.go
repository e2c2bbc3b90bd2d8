package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// closingHandler handles HTTP requests for year-end closings.
type closingHandler struct {
	closingService portssvc.ClosingSvcFacade
}

func newClosingHandler(cs portssvc.ClosingSvcFacade) *closingHandler {
	return &closingHandler{closingService: cs}
}

// registerClosingRoutes registers the closing routes on the organization group.
func registerClosingRoutes(org *gin.RouterGroup, closingService portssvc.ClosingSvcFacade) {
	h := newClosingHandler(closingService)

	closings := org.Group("/closings")
	{
		closings.POST("", h.closeYear)
		closings.GET("", h.listClosings)
		closings.GET("/latest", h.getLatestClosing)
		closings.GET("/year/:year", h.getClosingByYear)
		closings.GET("/:closingID", h.getClosing)
		closings.POST("/:closingID/audit", h.auditClosing)
		closings.PUT("/:closingID/remarks", h.updateRemarks)
	}
}

// closeYear godoc
// @Summary Close a fiscal year
// @Description Derives the year totals and freezes the year; no further postings are accepted
// @Tags closings
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param closing body dto.CalculateClosingRequest true "Closing request"
// @Success 201 {object} dto.ClosingResponse
// @Failure 409 {object} map[string]string "Year already closed"
// @Security BearerAuth
// @Router /organizations/{orgID}/closings [post]
func (h *closingHandler) closeYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CalculateClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	closing, err := h.closingService.CloseYear(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close fiscal year")
		return
	}

	logger.Info("Fiscal year closed", slog.Int("year", closing.Year), slog.String("closing_id", closing.ClosingID))
	c.JSON(http.StatusCreated, dto.ToClosingResponse(closing))
}

// listClosings godoc
// @Summary List year-end closings
// @Tags closings
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {array} dto.ClosingResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/closings [get]
func (h *closingHandler) listClosings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	closings, err := h.closingService.ListClosings(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list closings")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingResponses(closings))
}

// getLatestClosing godoc
// @Summary Get the most recent closing
// @Tags closings
// @Produce json
// @Param orgID path string true "Organization ID"
// @Success 200 {object} dto.ClosingResponse
// @Failure 404 {object} map[string]string "No closing exists"
// @Security BearerAuth
// @Router /organizations/{orgID}/closings/latest [get]
func (h *closingHandler) getLatestClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	closing, err := h.closingService.GetLatestClosing(c.Request.Context(), orgID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve latest closing")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingResponse(closing))
}

// getClosingByYear godoc
// @Summary Get the closing of a fiscal year
// @Tags closings
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param year path int true "Fiscal year"
// @Success 200 {object} dto.ClosingResponse
// @Failure 404 {object} map[string]string "Closing not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/closings/year/{year} [get]
func (h *closingHandler) getClosingByYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fiscal year in path"})
		return
	}

	closing, err := h.closingService.GetClosingByYear(c.Request.Context(), orgID, year)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve closing")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingResponse(closing))
}

// getClosing godoc
// @Summary Get a closing by ID
// @Tags closings
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param closingID path string true "Closing ID"
// @Success 200 {object} dto.ClosingResponse
// @Failure 404 {object} map[string]string "Closing not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/closings/{closingID} [get]
func (h *closingHandler) getClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	closingID := c.Param("closingID")

	closing, err := h.closingService.GetClosingByID(c.Request.Context(), orgID, closingID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve closing")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingResponse(closing))
}

// auditClosing godoc
// @Summary Mark a closing as audited
// @Description One-way transition; an audited closing's figures are immutable
// @Tags closings
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param closingID path string true "Closing ID"
// @Param audit body dto.AuditClosingRequest true "Auditor details"
// @Success 200 {object} dto.ClosingResponse
// @Failure 409 {object} map[string]string "Closing already audited"
// @Security BearerAuth
// @Router /organizations/{orgID}/closings/{closingID}/audit [post]
func (h *closingHandler) auditClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	closingID := c.Param("closingID")

	var req dto.AuditClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AuditClosing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	closing, err := h.closingService.AuditClosing(c.Request.Context(), orgID, closingID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to audit closing")
		return
	}

	logger.Info("Closing audited", slog.String("closing_id", closingID))
	c.JSON(http.StatusOK, dto.ToClosingResponse(closing))
}

// updateRemarks godoc
// @Summary Update a closing's remarks
// @Description Remarks stay editable after audit; the figures do not
// @Tags closings
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param closingID path string true "Closing ID"
// @Param remarks body dto.UpdateClosingRemarksRequest true "New remarks"
// @Success 200 {object} dto.ClosingResponse
// @Failure 404 {object} map[string]string "Closing not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/closings/{closingID}/remarks [put]
func (h *closingHandler) updateRemarks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	closingID := c.Param("closingID")

	var req dto.UpdateClosingRemarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRemarks", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	closing, err := h.closingService.UpdateRemarks(c.Request.Context(), orgID, closingID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update closing remarks")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingResponse(closing))
}
