package handler

import (
	"context"
	"net/http"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SettingsHandler handles the category and expense type lists
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// NameRequest is the body of list additions
type NameRequest struct {
	Name string `json:"name"`
}

// GetSettings handles GET /api/v1/settings
// @Summary Get categories and expense types
// @Tags settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.GetSettings(c.Request().Context())
	return writeList(c, settings, err, "get settings")
}

// AddCategory handles POST /api/v1/settings/categories
// @Summary Add a category
// @Tags settings
// @Accept json
// @Produce json
// @Param request body NameRequest true "Category"
// @Success 201 {object} domain.Settings
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /settings/categories [post]
func (h *SettingsHandler) AddCategory(c echo.Context) error {
	return h.add(c, "add category", h.settingsService.AddCategory)
}

// AddExpenseType handles POST /api/v1/settings/expense-types
// @Summary Add an expense type
// @Tags settings
// @Accept json
// @Produce json
// @Param request body NameRequest true "Expense type"
// @Success 201 {object} domain.Settings
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /settings/expense-types [post]
func (h *SettingsHandler) AddExpenseType(c echo.Context) error {
	return h.add(c, "add expense type", h.settingsService.AddExpenseType)
}

func (h *SettingsHandler) add(c echo.Context, action string, apply func(ctx context.Context, name string) (*domain.Settings, error)) error {
	var req NameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	settings, err := apply(c.Request().Context(), req.Name)
	if err != nil {
		return writeError(c, err, action)
	}
	return c.JSON(http.StatusCreated, settings)
}
