package handler

import (
	"net/http"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// GoalsHandler handles savings goals
type GoalsHandler struct {
	goalsService *service.GoalsService
}

// NewGoalsHandler creates a new GoalsHandler
func NewGoalsHandler(goalsService *service.GoalsService) *GoalsHandler {
	return &GoalsHandler{goalsService: goalsService}
}

// GoalsRequest is the body of PUT /goals. Empty fields are zero.
type GoalsRequest struct {
	MonthlyTarget string `json:"monthlyTarget"`
	AnnualTarget  string `json:"annualTarget"`
	BaseBudget    string `json:"baseBudget"`
}

// GoalsResponse represents the configured goals
type GoalsResponse struct {
	MonthlyTarget string `json:"monthlyTarget"`
	AnnualTarget  string `json:"annualTarget"`
	BaseBudget    string `json:"baseBudget"`
}

// SavingsProgressResponse represents progress against the goals
type SavingsProgressResponse struct {
	MonthlyTarget     string `json:"monthlyTarget"`
	AnnualTarget      string `json:"annualTarget"`
	MonthSavings      string `json:"monthSavings"`
	YearSavings       string `json:"yearSavings"`
	MonthlyProgress   string `json:"monthlyProgress"`
	AnnualProgress    string `json:"annualProgress"`
	MonthlyDifference string `json:"monthlyDifference"`
	AnnualDifference  string `json:"annualDifference"`
}

// GetGoals handles GET /api/v1/goals
// @Summary Get savings goals
// @Tags goals
// @Produce json
// @Success 200 {object} GoalsResponse
// @Router /goals [get]
func (h *GoalsHandler) GetGoals(c echo.Context) error {
	goals, err := h.goalsService.GetGoals(c.Request().Context())
	return writeList(c, toGoalsResponse(goals), err, "get goals")
}

// UpdateGoals handles PUT /api/v1/goals
// @Summary Set savings goals and the base budget
// @Tags goals
// @Accept json
// @Produce json
// @Param request body GoalsRequest true "Goals"
// @Success 200 {object} GoalsResponse
// @Failure 400 {object} ProblemDetails
// @Router /goals [put]
func (h *GoalsHandler) UpdateGoals(c echo.Context) error {
	var req GoalsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var goals domain.Goals
	var ok bool
	if goals.MonthlyTarget, ok = parseAmount(req.MonthlyTarget, true); !ok {
		return invalidField(c, "monthlyTarget", "Must be a valid decimal number")
	}
	if goals.AnnualTarget, ok = parseAmount(req.AnnualTarget, true); !ok {
		return invalidField(c, "annualTarget", "Must be a valid decimal number")
	}
	if goals.BaseBudget, ok = parseAmount(req.BaseBudget, true); !ok {
		return invalidField(c, "baseBudget", "Must be a valid decimal number")
	}

	updated, err := h.goalsService.UpdateGoals(c.Request().Context(), goals)
	if err != nil {
		return writeError(c, err, "update goals")
	}
	return c.JSON(http.StatusOK, toGoalsResponse(updated))
}

// GetProgress handles GET /api/v1/goals/progress
// @Summary Savings progress against the goals
// @Description Monthly progress is capped at 200%, annual at 100%
// @Tags goals
// @Produce json
// @Success 200 {object} SavingsProgressResponse
// @Router /goals/progress [get]
func (h *GoalsHandler) GetProgress(c echo.Context) error {
	p, err := h.goalsService.GetSavingsProgress(c.Request().Context())
	if err != nil {
		return writeError(c, err, "get savings progress")
	}

	return c.JSON(http.StatusOK, SavingsProgressResponse{
		MonthlyTarget:     p.MonthlyTarget.StringFixed(2),
		AnnualTarget:      p.AnnualTarget.StringFixed(2),
		MonthSavings:      p.MonthSavings.StringFixed(2),
		YearSavings:       p.YearSavings.StringFixed(2),
		MonthlyProgress:   p.MonthlyProgress.StringFixed(2),
		AnnualProgress:    p.AnnualProgress.StringFixed(2),
		MonthlyDifference: p.MonthlyDifference.StringFixed(2),
		AnnualDifference:  p.AnnualDifference.StringFixed(2),
	})
}

func toGoalsResponse(g *domain.Goals) GoalsResponse {
	if g == nil {
		g = &domain.Goals{}
	}
	return GoalsResponse{
		MonthlyTarget: g.MonthlyTarget.StringFixed(2),
		AnnualTarget:  g.AnnualTarget.StringFixed(2),
		BaseBudget:    g.BaseBudget.StringFixed(2),
	}
}
