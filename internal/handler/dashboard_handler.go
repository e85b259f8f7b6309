package handler

import (
	"net/http"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	goalsService     *service.GoalsService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService, goalsService *service.GoalsService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		goalsService:     goalsService,
	}
}

// CategoryTotalResponse is one entry of the top categories
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

// DashboardSummaryResponse represents the dashboard summary API response
type DashboardSummaryResponse struct {
	Year                     int                     `json:"year"`
	Month                    int                     `json:"month"`
	TotalBalance             string                  `json:"totalBalance"`
	MonthExpenses            string                  `json:"monthExpenses"`
	MonthIncome              string                  `json:"monthIncome"`
	CurrentSavings           string                  `json:"currentSavings"`
	AccumulatedAnnualSavings string                  `json:"accumulatedAnnualSavings"`
	TopCategories            []CategoryTotalResponse `json:"topCategories"`
	CategoryBreakdown        map[string]string       `json:"categoryBreakdown"`
	ExpenseTypeBreakdown     map[string]string       `json:"expenseTypeBreakdown"`
	RecurringMonthlyTotal    string                  `json:"recurringMonthlyTotal"`
	AccountCount             int                     `json:"accountCount"`
	TransactionCount         int                     `json:"transactionCount"`
	ReconciliationIncomplete bool                    `json:"reconciliationIncomplete"`
	Degraded                 bool                    `json:"degraded"`
	Warnings                 []string                `json:"warnings,omitempty"`
}

// BudgetReportResponse represents the budget report API response
type BudgetReportResponse struct {
	BaseBudget        string `json:"baseBudget"`
	RecurringExpenses string `json:"recurringExpenses"`
	TotalBudget       string `json:"totalBudget"`
	MonthExpenses     string `json:"monthExpenses"`
	Remaining         string `json:"remaining"`
	PercentUsed       string `json:"percentUsed"`
	WithinBudget      bool   `json:"withinBudget"`
}

// GetSummary handles GET /api/v1/dashboard/summary
// @Summary Get dashboard summary
// @Description Current month totals, accumulated real savings and category rankings. Closes the month on its last day.
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardSummaryResponse
// @Failure 500 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	summary, err := h.dashboardService.GetSummary(c.Request().Context())
	if err != nil {
		return writeError(c, err, "get dashboard summary")
	}

	markDegraded(c, summary.Degraded)
	return c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// GetBudget handles GET /api/v1/dashboard/budget
// @Summary Get the month's budget report
// @Tags dashboard
// @Produce json
// @Success 200 {object} BudgetReportResponse
// @Failure 503 {object} ProblemDetails
// @Router /dashboard/budget [get]
func (h *DashboardHandler) GetBudget(c echo.Context) error {
	report, err := h.goalsService.GetBudgetReport(c.Request().Context())
	if err != nil {
		return writeError(c, err, "get budget report")
	}

	return c.JSON(http.StatusOK, BudgetReportResponse{
		BaseBudget:        report.BaseBudget.StringFixed(2),
		RecurringExpenses: report.RecurringExpenses.StringFixed(2),
		TotalBudget:       report.TotalBudget.StringFixed(2),
		MonthExpenses:     report.MonthExpenses.StringFixed(2),
		Remaining:         report.Remaining.StringFixed(2),
		PercentUsed:       report.PercentUsed.StringFixed(2),
		WithinBudget:      report.WithinBudget,
	})
}

func toSummaryResponse(s *domain.DashboardSummary) DashboardSummaryResponse {
	top := make([]CategoryTotalResponse, len(s.TopCategories))
	for i, ct := range s.TopCategories {
		top[i] = CategoryTotalResponse{Category: ct.Category, Total: ct.Total.StringFixed(2)}
	}

	return DashboardSummaryResponse{
		Year:                     s.Period.Year,
		Month:                    s.Period.Month,
		TotalBalance:             s.TotalBalance.StringFixed(2),
		MonthExpenses:            s.MonthExpenses.StringFixed(2),
		MonthIncome:              s.MonthIncome.StringFixed(2),
		CurrentSavings:           s.CurrentSavings.StringFixed(2),
		AccumulatedAnnualSavings: s.AccumulatedAnnualSavings.StringFixed(2),
		TopCategories:            top,
		CategoryBreakdown:        fixedMap(s.CategoryBreakdown),
		ExpenseTypeBreakdown:     fixedMap(s.ExpenseTypeBreakdown),
		RecurringMonthlyTotal:    s.RecurringMonthlyTotal.StringFixed(2),
		AccountCount:             s.AccountCount,
		TransactionCount:         s.TransactionCount,
		ReconciliationIncomplete: s.ReconciliationIncomplete,
		Degraded:                 s.Degraded,
		Warnings:                 s.Warnings,
	}
}

func fixedMap(m map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.StringFixed(2)
	}
	return out
}
