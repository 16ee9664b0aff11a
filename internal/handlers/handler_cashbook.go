package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
	"github.com/SscSPs/facility_finance_app/internal/dto"
	"github.com/SscSPs/facility_finance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashbookHandler handles HTTP requests related to cashbook entries.
type cashbookHandler struct {
	cashbookService portssvc.CashbookSvcFacade
}

// newCashbookHandler creates a new cashbookHandler.
func newCashbookHandler(cs portssvc.CashbookSvcFacade) *cashbookHandler {
	return &cashbookHandler{cashbookService: cs}
}

// registerCashbookRoutes registers routes related to cashbook entries and balance maintenance.
func registerCashbookRoutes(rg *gin.RouterGroup, cashbookService portssvc.CashbookSvcFacade) {
	h := newCashbookHandler(cashbookService)

	cashbooks := rg.Group("/cashbooks")
	{
		cashbooks.POST("", h.createEntry)
		cashbooks.GET("", h.listEntries)
		cashbooks.GET("/:id", h.getEntry)
		cashbooks.PATCH("/:id", h.updateEntry)
		cashbooks.PUT("/:id", h.updateEntry)
		cashbooks.DELETE("/:id", h.deleteEntry)
	}

	rg.GET("/audit/balances", h.auditBalances)
}

// createEntry godoc
// @Summary Record a cashbook entry
// @Description Validates the entry, assigns its quarter and reference when omitted and recomputes the running balances of its account
// @Tags cashbooks
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateCashbookRequest true "Entry details"
// @Success 201 {object} dto.CashbookEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or validation error"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate reference or contention (retryable)"
// @Failure 500 {object} dto.ErrorResponse "Failed to create entry"
// @Security BearerAuth
// @Router /cashbooks [post]
func (h *cashbookHandler) createEntry(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	var req dto.CreateCashbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.cashbookService.CreateEntry(c.Request.Context(), scope, req.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to create cashbook entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCashbookEntryResponse(*entry))
}

// getEntry godoc
// @Summary Get a cashbook entry
// @Tags cashbooks
// @Produce  json
// @Param   id path int true "Entry ID"
// @Success 200 {object} dto.CashbookEntryResponse
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /cashbooks/{id} [get]
func (h *cashbookHandler) getEntry(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	entryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.cashbookService.GetEntry(c.Request.Context(), scope, entryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve cashbook entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToCashbookEntryResponse(*entry))
}

// listEntries godoc
// @Summary List cashbook entries
// @Description Lists entries visible to the caller, newest transaction date first
// @Tags cashbooks
// @Produce  json
// @Param   account_id query int false "Account ID"
// @Param   facility_id query int false "Facility ID"
// @Param   hospital_id query int false "Hospital ID"
// @Param   quarter query string false "Quarter (Q1-Q4)"
// @Param   date_from query string false "First transaction date (YYYY-MM-DD)"
// @Param   date_to query string false "Last transaction date (YYYY-MM-DD)"
// @Param   limit query int false "Page size (1-500)"
// @Param   next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Security BearerAuth
// @Router /cashbooks [get]
func (h *cashbookHandler) listEntries(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	filter, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Failed to list cashbook entries")
		return
	}

	page, err := h.cashbookService.ListEntries(c.Request.Context(), scope, filter)
	if err != nil {
		respondError(c, err, "Failed to list cashbook entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntriesResponse(*page))
}

// updateEntry godoc
// @Summary Update a cashbook entry
// @Description Applies a partial update. Omitted fields are unchanged; null clears nullable fields. Setting one cash side clears the other.
// @Tags cashbooks
// @Accept  json
// @Produce  json
// @Param   id path int true "Entry ID"
// @Param   entry body dto.UpdateCashbookRequest true "Fields to change"
// @Success 200 {object} dto.CashbookEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or validation error"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Entry or account not found"
// @Failure 409 {object} dto.ErrorResponse "Contention (retryable)"
// @Security BearerAuth
// @Router /cashbooks/{id} [patch]
func (h *cashbookHandler) updateEntry(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	entryID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCashbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	patch, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Failed to update cashbook entry")
		return
	}

	entry, err := h.cashbookService.UpdateEntry(c.Request.Context(), scope, entryID, patch)
	if err != nil {
		respondError(c, err, "Failed to update cashbook entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToCashbookEntryResponse(*entry))
}

// deleteEntry godoc
// @Summary Delete a cashbook entry
// @Description Removes the entry and recomputes the running balances of its account
// @Tags cashbooks
// @Param   id path int true "Entry ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Contention (retryable)"
// @Security BearerAuth
// @Router /cashbooks/{id} [delete]
func (h *cashbookHandler) deleteEntry(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	entryID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.cashbookService.DeleteEntry(c.Request.Context(), scope, entryID); err != nil {
		respondError(c, err, "Failed to delete cashbook entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// auditBalances godoc
// @Summary Audit running balances
// @Description Compares every account's stored running balances with a fresh recomputation. Requires COUNTRY scope.
// @Tags maintenance
// @Produce  json
// @Success 200 {object} dto.AuditResponse
// @Failure 403 {object} dto.ErrorResponse "Requires COUNTRY scope"
// @Security BearerAuth
// @Router /audit/balances [get]
func (h *cashbookHandler) auditBalances(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}

	drifts, err := h.cashbookService.AuditBalances(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err, "Failed to audit balances")
		return
	}
	if len(drifts) > 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Balance audit found drift", slog.Int("accounts", len(drifts)))
	}

	c.JSON(http.StatusOK, dto.ToAuditResponse(drifts))
}
