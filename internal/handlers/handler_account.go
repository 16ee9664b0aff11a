package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/facility_finance_app/internal/core/ports/services"
	"github.com/SscSPs/facility_finance_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	balances       portssvc.BalanceMaintenanceSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceMaintenanceSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		balances:       bs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balances portssvc.BalanceMaintenanceSvc) {
	h := newAccountHandler(accountService, balances)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PATCH("/:id", h.updateAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.POST("/:id/recompute", h.recomputeAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a bank, mobile money or cash account owned by a facility or hospital
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 500 {object} dto.ErrorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), scope, req.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(*account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves an account with the balance of its most recent entry
// @Tags accounts
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	accountID, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountWithBalance(c.Request.Context(), scope, accountID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountWithBalanceResponse(*account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the accounts visible to the caller with their current balances
// @Tags accounts
// @Produce  json
// @Param   q query string false "Name contains"
// @Param   facility_id query int false "Facility ID"
// @Param   hospital_id query int false "Hospital ID"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), scope, params.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates the descriptive fields of an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	accountID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), scope, accountID, req.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(*account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account that has no cashbook entries
// @Tags accounts
// @Param   id path int true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Account still has entries"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	accountID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), scope, accountID); err != nil {
		respondError(c, err, "Failed to delete account")
		return
	}

	c.Status(http.StatusNoContent)
}

// recomputeAccount godoc
// @Summary Recompute running balances
// @Description Re-runs the balance engine for one account. Requires COUNTRY scope.
// @Tags maintenance
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 200 {object} dto.RecomputeResponse
// @Failure 403 {object} dto.ErrorResponse "Requires COUNTRY scope"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Contention (retryable)"
// @Security BearerAuth
// @Router /accounts/{id}/recompute [post]
func (h *accountHandler) recomputeAccount(c *gin.Context) {
	scope, ok := callerScope(c)
	if !ok {
		return
	}
	accountID, ok := idParam(c, "id")
	if !ok {
		return
	}

	rewritten, err := h.balances.RecomputeAccount(c.Request.Context(), scope, accountID)
	if err != nil {
		respondError(c, err, "Failed to recompute balances")
		return
	}

	c.JSON(http.StatusOK, dto.RecomputeResponse{AccountID: accountID, Rewritten: rewritten})
}
