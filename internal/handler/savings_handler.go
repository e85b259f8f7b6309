package handler

import (
	"net/http"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SavingsHandler serves reconciled real savings
type SavingsHandler struct {
	reconciliationService *service.ReconciliationService
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(reconciliationService *service.ReconciliationService) *SavingsHandler {
	return &SavingsHandler{reconciliationService: reconciliationService}
}

// BalanceResponse is a boundary balance with its provenance
type BalanceResponse struct {
	Amount string `json:"amount"`
	Source string `json:"source"`
}

// RealSavingsResponse represents one reconciled month
type RealSavingsResponse struct {
	Year                     int             `json:"year"`
	Month                    int             `json:"month"`
	StartBalance             BalanceResponse `json:"startBalance"`
	EndBalance               BalanceResponse `json:"endBalance"`
	NaiveSavings             string          `json:"naiveSavings"`
	RealSavings              string          `json:"realSavings"`
	FromSnapshot             bool            `json:"fromSnapshot"`
	ReconciliationIncomplete bool            `json:"reconciliationIncomplete"`
	Degraded                 bool            `json:"degraded"`
	Warnings                 []string        `json:"warnings,omitempty"`
}

// GetRealSavings handles GET /api/v1/savings/:year/:month
// @Summary Reconcile one month
// @Description Real savings are the change in total balance over the month. A stored snapshot always wins.
// @Tags savings
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} RealSavingsResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /savings/{year}/{month} [get]
func (h *SavingsHandler) GetRealSavings(c echo.Context) error {
	period, ok := parsePeriodParams(c)
	if !ok {
		return writeError(c, domain.ErrInvalidPeriod, "get real savings")
	}

	rec, err := h.reconciliationService.GetRealSavings(c.Request().Context(), period.Month, period.Year)
	if err != nil {
		return writeError(c, err, "get real savings")
	}

	markDegraded(c, rec.Degraded)
	return c.JSON(http.StatusOK, RealSavingsResponse{
		Year:                     rec.Period.Year,
		Month:                    rec.Period.Month,
		StartBalance:             toBalanceResponse(rec.StartBalance),
		EndBalance:               toBalanceResponse(rec.EndBalance),
		NaiveSavings:             rec.NaiveSavings.StringFixed(2),
		RealSavings:              rec.RealSavings.StringFixed(2),
		FromSnapshot:             rec.FromSnapshot,
		ReconciliationIncomplete: rec.Incomplete,
		Degraded:                 rec.Degraded,
		Warnings:                 rec.Warnings,
	})
}

func toBalanceResponse(b domain.ResolvedBalance) BalanceResponse {
	return BalanceResponse{Amount: b.Amount.StringFixed(2), Source: string(b.Source)}
}
