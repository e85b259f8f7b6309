package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name           string `json:"name"`
	InitialBalance string `json:"initialBalance,omitempty"`
}

// UpdateAccountRequest represents the update account request body
type UpdateAccountRequest struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

// AmountRequest is the body of deposit and withdraw requests
type AmountRequest struct {
	Amount string `json:"amount"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"createdAt"`
}

// CreateAccount handles POST /api/v1/accounts
// @Summary Create an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	initialBalance, ok := parseAmount(req.InitialBalance, true)
	if !ok {
		return invalidField(c, "initialBalance", "Must be a valid decimal number")
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), service.CreateAccountInput{
		Name:           req.Name,
		InitialBalance: initialBalance,
	})
	if err != nil {
		return writeError(c, err, "create account")
	}

	log.Info().Str("account_id", account.ID).Str("name", account.Name).Msg("Account created")

	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts handles GET /api/v1/accounts
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} AccountResponse
// @Router /accounts [get]
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	accounts, err := h.accountService.GetAccounts(c.Request().Context())
	return writeList(c, toAccountResponses(accounts), err, "get accounts")
}

// UpdateAccount handles PUT /api/v1/accounts/:id
// @Summary Rename an account and set its balance
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateAccountRequest true "Account"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	balance, ok := parseAmount(req.Balance, false)
	if !ok {
		return invalidField(c, "balance", "Must be a valid decimal number")
	}

	account, err := h.accountService.UpdateAccount(c.Request().Context(), c.Param("id"), service.UpdateAccountInput{
		Name:    req.Name,
		Balance: balance,
	})
	if err != nil {
		return writeError(c, err, "update account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
// @Summary Delete an account
// @Tags accounts
// @Param id path string true "Account ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id := c.Param("id")
	if err := h.accountService.DeleteAccount(c.Request().Context(), id); err != nil {
		return writeError(c, err, "delete account")
	}

	log.Info().Str("account_id", id).Msg("Account deleted")

	return c.NoContent(http.StatusNoContent)
}

// Deposit handles POST /api/v1/accounts/:id/deposit
// @Summary Add money to an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AmountRequest true "Amount"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /accounts/{id}/deposit [post]
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.move(c, "deposit", h.accountService.Deposit)
}

// Withdraw handles POST /api/v1/accounts/:id/withdraw
// @Summary Take money from an account
// @Description Fails with 400 when the balance would go below zero
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AmountRequest true "Amount"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /accounts/{id}/withdraw [post]
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.move(c, "withdraw", h.accountService.Withdraw)
}

func (h *AccountHandler) move(c echo.Context, action string, apply func(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error)) error {
	var req AmountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, ok := parseAmount(req.Amount, false)
	if !ok {
		return invalidField(c, "amount", "Must be a valid decimal number")
	}

	account, err := apply(c.Request().Context(), c.Param("id"), amount)
	if err != nil {
		return writeError(c, err, action)
	}

	log.Info().Str("account_id", account.ID).Str("amount", amount.String()).Msg("Account " + action)

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance.StringFixed(2),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func toAccountResponses(accounts []*domain.Account) []AccountResponse {
	response := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		response[i] = toAccountResponse(a)
	}
	return response
}
