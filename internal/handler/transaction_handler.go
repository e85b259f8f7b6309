package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionRequest is the body of create and update requests
type TransactionRequest struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Concept     string `json:"concept"`
	Category    string `json:"category"`
	ExpenseType string `json:"expenseType"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Concept     string `json:"concept"`
	Category    string `json:"category"`
	ExpenseType string `json:"expenseType,omitempty"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	CreatedAt   string `json:"createdAt"`
}

func (r TransactionRequest) toInput() (service.TransactionInput, *ValidationError) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return service.TransactionInput{}, &ValidationError{Field: "date", Message: "Date must be YYYY-MM-DD"}
	}
	amount, ok := parseAmount(r.Amount, false)
	if !ok {
		return service.TransactionInput{}, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}
	return service.TransactionInput{
		Date:        date,
		Concept:     r.Concept,
		Category:    r.Category,
		ExpenseType: r.ExpenseType,
		Amount:      amount,
		Kind:        r.Kind,
	}, nil
}

// CreateTransaction handles POST /api/v1/transactions
// @Summary Record a transaction
// @Description Kind is expense, income or payment. Payments are netted against expenses.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body TransactionRequest true "Transaction"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, verr := req.toInput()
	if verr != nil {
		return invalidField(c, verr.Field, verr.Message)
	}

	txn, err := h.transactionService.CreateTransaction(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err, "create transaction")
	}

	log.Info().Str("transaction_id", txn.ID).Str("kind", string(txn.Kind)).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(txn))
}

// GetTransactions handles GET /api/v1/transactions
// @Summary List transactions
// @Description Filters to one month when both year and month are given
// @Tags transactions
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	yearParam, monthParam := c.QueryParam("year"), c.QueryParam("month")
	if yearParam == "" && monthParam == "" {
		txns, err := h.transactionService.GetTransactions(c.Request().Context())
		return writeList(c, toTransactionResponses(txns), err, "get transactions")
	}

	year, yerr := strconv.Atoi(yearParam)
	month, merr := strconv.Atoi(monthParam)
	if yerr != nil || merr != nil {
		return invalidField(c, "period", "Both year and month are required")
	}

	txns, err := h.transactionService.GetTransactionsByPeriod(c.Request().Context(), month, year)
	return writeList(c, toTransactionResponses(txns), err, "get transactions")
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	input, verr := req.toInput()
	if verr != nil {
		return invalidField(c, verr.Field, verr.Message)
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return writeError(c, err, "update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(txn))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	if err := h.transactionService.DeleteTransaction(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err, "delete transaction")
	}
	return c.NoContent(http.StatusNoContent)
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Date:        t.Date.Format("2006-01-02"),
		Concept:     t.Concept,
		Category:    t.Category,
		ExpenseType: t.ExpenseType,
		Amount:      t.Amount.StringFixed(2),
		Kind:        string(t.Kind),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponses(txns []*domain.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		response[i] = toTransactionResponse(t)
	}
	return response
}
