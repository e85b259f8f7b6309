package handler

import (
	"net/http"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// RecurringHandler handles recurring expense HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RecurringRequest is the body of create and update requests
type RecurringRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Periodicity string `json:"periodicity"`
}

// RecurringResponse represents a recurring expense in API responses
type RecurringResponse struct {
	ID                string `json:"id"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Amount            string `json:"amount"`
	Periodicity       string `json:"periodicity"`
	MonthlyEquivalent string `json:"monthlyEquivalent"`
	CreatedAt         string `json:"createdAt"`
}

// RecurringListResponse lists recurring expenses with their monthly total
type RecurringListResponse struct {
	Items        []RecurringResponse `json:"items"`
	MonthlyTotal string              `json:"monthlyTotal"`
}

func (h *RecurringHandler) bindInput(c echo.Context) (service.RecurringInput, *ValidationError) {
	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return service.RecurringInput{}, &ValidationError{Message: "Invalid request body"}
	}
	amount, ok := parseAmount(req.Amount, false)
	if !ok {
		return service.RecurringInput{}, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}
	return service.RecurringInput{
		Description: req.Description,
		Category:    req.Category,
		Amount:      amount,
		Periodicity: req.Periodicity,
	}, nil
}

// CreateRecurring handles POST /api/v1/recurring
// @Summary Create a recurring expense
// @Tags recurring
// @Accept json
// @Produce json
// @Param request body RecurringRequest true "Recurring expense"
// @Success 201 {object} RecurringResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /recurring [post]
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	input, verr := h.bindInput(c)
	if verr != nil {
		return invalidField(c, verr.Field, verr.Message)
	}

	item, err := h.recurringService.CreateRecurring(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err, "create recurring expense")
	}

	log.Info().Str("recurring_id", item.ID).Str("periodicity", string(item.Periodicity)).Msg("Recurring expense created")

	return c.JSON(http.StatusCreated, toRecurringResponse(item))
}

// GetRecurring handles GET /api/v1/recurring
// @Summary List recurring expenses
// @Tags recurring
// @Produce json
// @Success 200 {object} RecurringListResponse
// @Router /recurring [get]
func (h *RecurringHandler) GetRecurring(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.recurringService.GetRecurring(ctx)
	if err != nil {
		return writeList(c, RecurringListResponse{
			Items:        toRecurringResponses(items),
			MonthlyTotal: domain.MonthlyBudget(items).StringFixed(2),
		}, err, "get recurring expenses")
	}

	total, err := h.recurringService.GetMonthlyTotal(ctx)
	return writeList(c, RecurringListResponse{
		Items:        toRecurringResponses(items),
		MonthlyTotal: total.StringFixed(2),
	}, err, "get recurring expenses")
}

// UpdateRecurring handles PUT /api/v1/recurring/:id
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	input, verr := h.bindInput(c)
	if verr != nil {
		return invalidField(c, verr.Field, verr.Message)
	}

	item, err := h.recurringService.UpdateRecurring(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return writeError(c, err, "update recurring expense")
	}
	return c.JSON(http.StatusOK, toRecurringResponse(item))
}

// DeleteRecurring handles DELETE /api/v1/recurring/:id
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	if err := h.recurringService.DeleteRecurring(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err, "delete recurring expense")
	}
	return c.NoContent(http.StatusNoContent)
}

func toRecurringResponse(r *domain.RecurringExpense) RecurringResponse {
	return RecurringResponse{
		ID:                r.ID,
		Description:       r.Description,
		Category:          r.Category,
		Amount:            r.Amount.StringFixed(2),
		Periodicity:       string(r.Periodicity),
		MonthlyEquivalent: r.MonthlyEquivalent.StringFixed(2),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
}

func toRecurringResponses(items []*domain.RecurringExpense) []RecurringResponse {
	response := make([]RecurringResponse, len(items))
	for i, r := range items {
		response[i] = toRecurringResponse(r)
	}
	return response
}
