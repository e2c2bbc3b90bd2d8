package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/easyfibu/kassenbuch-service/internal/core/ports/services"
	"github.com/easyfibu/kassenbuch-service/internal/dto"
	"github.com/easyfibu/kassenbuch-service/internal/middleware"
)

// ledgerHandler handles HTTP requests for cash book entries and derived
// figures.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers the ledger routes on the organization group.
func RegisterLedgerRoutes(org *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	entries := org.Group("/entries")
	{
		entries.POST("", h.postEntry)
		entries.GET("", h.listEntries)
		entries.GET("/next-voucher", h.nextVoucherNumber)
		entries.GET("/:year/:voucherNo", h.getEntry)
		entries.POST("/:year/:voucherNo/reverse", h.reverseEntry)
	}

	org.GET("/balances", h.getBalances)
	org.GET("/account-summary", h.getAccountSummary)
	org.GET("/accounts/:number/statement", h.getAccountStatement)
}

// postEntry godoc
// @Summary Post a cash book entry
// @Description Appends an entry to the ledger, assigning the next gapless voucher number
// @Tags ledger
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param entry body dto.CreatePostingRequest true "Posting details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid posting"
// @Failure 409 {object} map[string]string "Fiscal year is closed"
// @Security BearerAuth
// @Router /organizations/{orgID}/entries [post]
func (h *ledgerHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), orgID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted", slog.Int("fiscal_year", entry.FiscalYear), slog.Int("voucher_no", entry.VoucherNo))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List cash book entries
// @Description Lists a fiscal year's entries in voucher order, or entries in a date range when from/to are given
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param year query int false "Fiscal year"
// @Param from query string false "Range start (RFC 3339 date)"
// @Param to query string false "Range end (RFC 3339 date)"
// @Success 200 {array} dto.EntryResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
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
		entries, err := h.ledgerService.ListEntriesByDateRange(c.Request.Context(), orgID, from, to)
		if err != nil {
			respondServiceError(c, logger, err, "Failed to list entries")
			return
		}
		c.JSON(http.StatusOK, dto.ToEntryResponses(entries))
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'year' is required"})
		return
	}

	entries, err := h.ledgerService.ListEntriesByYear(c.Request.Context(), orgID, year)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponses(entries))
}

// getEntry godoc
// @Summary Get one entry by voucher number
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param year path int true "Fiscal year"
// @Param voucherNo path int true "Voucher number"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/entries/{year}/{voucherNo} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	year, voucherNo, ok := parseVoucherPath(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), orgID, year, voucherNo)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse an entry
// @Description Appends a mirror entry with its own voucher number and marks the original reversed
// @Tags ledger
// @Accept json
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param year path int true "Fiscal year"
// @Param voucherNo path int true "Voucher number of the original entry"
// @Param reversal body dto.ReverseEntryRequest true "Reversal details"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed or year closed"
// @Security BearerAuth
// @Router /organizations/{orgID}/entries/{year}/{voucherNo}/reverse [post]
func (h *ledgerHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	year, voucherNo, ok := parseVoucherPath(c)
	if !ok {
		return
	}

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	reversal, err := h.ledgerService.ReverseEntry(c.Request.Context(), orgID, year, voucherNo, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse entry")
		return
	}

	logger.Info("Entry reversed", slog.Int("original_voucher_no", voucherNo), slog.Int("reversal_voucher_no", reversal.VoucherNo))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// nextVoucherNumber godoc
// @Summary Preview the next voucher number
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param year query int true "Fiscal year"
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /organizations/{orgID}/entries/next-voucher [get]
func (h *ledgerHandler) nextVoucherNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'year' is required"})
		return
	}

	next, err := h.ledgerService.NextVoucherNumber(c.Request.Context(), orgID, year)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to derive next voucher number")
		return
	}
	c.JSON(http.StatusOK, gin.H{"fiscalYear": year, "nextVoucherNo": next})
}

// getBalances godoc
// @Summary Derive running balances for a fiscal year
// @Description Folds over the year's entries; reversed pairs cancel out and opening balances carry from the prior closing
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param year query int true "Fiscal year"
// @Success 200 {object} dto.BalancesResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/balances [get]
func (h *ledgerHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'year' is required"})
		return
	}

	balances, err := h.ledgerService.CalculateBalances(c.Request.Context(), orgID, year)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to calculate balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalancesResponse(balances))
}

// getAccountSummary godoc
// @Summary Aggregate income and expense per account
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param year query int true "Fiscal year"
// @Success 200 {array} dto.AccountSummaryResponse
// @Security BearerAuth
// @Router /organizations/{orgID}/account-summary [get]
func (h *ledgerHandler) getAccountSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'year' is required"})
		return
	}

	summaries, err := h.ledgerService.AccountSummary(c.Request.Context(), orgID, year)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build account summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountSummaryResponses(summaries))
}

// getAccountStatement godoc
// @Summary List one account's entries for a fiscal year
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param number path string true "Account number"
// @Param year query int true "Fiscal year"
// @Success 200 {array} dto.EntryResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /organizations/{orgID}/accounts/{number}/statement [get]
func (h *ledgerHandler) getAccountStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")
	number := c.Param("number")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'year' is required"})
		return
	}

	entries, err := h.ledgerService.ListEntriesByAccount(c.Request.Context(), orgID, year, number)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list account entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponses(entries))
}

func parseVoucherPath(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fiscal year in path"})
		return 0, 0, false
	}
	voucherNo, err := strconv.Atoi(c.Param("voucherNo"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid voucher number in path"})
		return 0, 0, false
	}
	return year, voucherNo, true
}
