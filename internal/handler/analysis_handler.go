package handler

import (
	"net/http"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// AnalysisHandler serves the monthly and annual series
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// GetMonthlyAnalysis handles GET /api/v1/analysis/monthly
// @Summary Monthly series from the first tracked month
// @Tags analysis
// @Produce json
// @Success 200 {object} domain.MonthlySeries
// @Router /analysis/monthly [get]
func (h *AnalysisHandler) GetMonthlyAnalysis(c echo.Context) error {
	series, err := h.analysisService.GetMonthlyAnalysis(c.Request().Context())
	if err != nil {
		return writeError(c, err, "get monthly analysis")
	}
	// series may be shared through the cache
	out := *series
	if out.Months == nil {
		out.Months = []domain.MonthAnalysis{}
	}
	markDegraded(c, out.Degraded)
	return c.JSON(http.StatusOK, out)
}

// GetAnnualAnalysis handles GET /api/v1/analysis/annual
// @Summary Annual series from the first tracked year
// @Tags analysis
// @Produce json
// @Success 200 {object} domain.AnnualSeries
// @Router /analysis/annual [get]
func (h *AnalysisHandler) GetAnnualAnalysis(c echo.Context) error {
	series, err := h.analysisService.GetAnnualAnalysis(c.Request().Context())
	if err != nil {
		return writeError(c, err, "get annual analysis")
	}
	// series may be shared through the cache
	out := *series
	if out.Years == nil {
		out.Years = []domain.YearAnalysis{}
	}
	markDegraded(c, out.Degraded)
	return c.JSON(http.StatusOK, out)
}
