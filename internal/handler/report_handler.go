package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/export"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler serves monthly snapshots
type ReportHandler struct {
	reportService *service.ReportService
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// MonthlyReportResponse represents a snapshot in API responses
type MonthlyReportResponse struct {
	Year              int    `json:"year"`
	Month             int    `json:"month"`
	TotalExpenses     string `json:"totalExpenses"`
	TotalIncome       string `json:"totalIncome"`
	NaiveSavings      string `json:"naiveSavings"`
	RealSavings       string `json:"realSavings"`
	EndOfMonthBalance string `json:"endOfMonthBalance"`
	GeneratedAt       string `json:"generatedAt"`
	// ReconciliationIncomplete marks a snapshot written without an anchored balance
	ReconciliationIncomplete bool `json:"reconciliationIncomplete"`
}

// GetMonthlyReports handles GET /api/v1/reports
// @Summary List monthly snapshots
// @Description Ordered by period, oldest first
// @Tags reports
// @Produce json
// @Success 200 {array} MonthlyReportResponse
// @Router /reports [get]
func (h *ReportHandler) GetMonthlyReports(c echo.Context) error {
	reports, err := h.reportService.GetMonthlyReports(c.Request().Context())
	return writeList(c, toReportResponses(reports), err, "get monthly reports")
}

// GetMonthlyReport handles GET /api/v1/reports/:year/:month
// @Summary Get one monthly snapshot
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} MonthlyReportResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /reports/{year}/{month} [get]
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	period, ok := parsePeriodParams(c)
	if !ok {
		return writeError(c, domain.ErrInvalidPeriod, "get monthly report")
	}

	report, err := h.reportService.GetMonthlyReport(c.Request().Context(), period.Month, period.Year)
	if err != nil {
		return writeError(c, err, "get monthly report")
	}
	return c.JSON(http.StatusOK, toReportResponse(report))
}

// RegenerateMonthlyReport handles POST /api/v1/reports/:year/:month/regenerate
// @Summary Recompute a monthly snapshot
// @Description Overwrites any existing snapshot for the period. Future periods are rejected.
// @Tags reports
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} MonthlyReportResponse
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /reports/{year}/{month}/regenerate [post]
func (h *ReportHandler) RegenerateMonthlyReport(c echo.Context) error {
	period, ok := parsePeriodParams(c)
	if !ok {
		return writeError(c, domain.ErrInvalidPeriod, "regenerate monthly report")
	}

	report, err := h.reportService.RegenerateMonthlyReport(c.Request().Context(), period.Month, period.Year)
	if err != nil {
		return writeError(c, err, "regenerate monthly report")
	}

	log.Info().Str("period", period.String()).Str("real_savings", report.RealSavings.String()).Msg("Monthly report regenerated")

	return c.JSON(http.StatusOK, toReportResponse(report))
}

// ExportMonthlyReports handles GET /api/v1/reports/export
// @Summary Download every snapshot
// @Tags reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /reports/export [get]
func (h *ReportHandler) ExportMonthlyReports(c echo.Context) error {
	raw := c.QueryParam("format")
	if raw == "" {
		raw = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		return writeError(c, err, "export monthly reports")
	}

	reports, err := h.reportService.GetMonthlyReports(c.Request().Context())
	if err != nil {
		// an export must not silently miss snapshots
		return writeError(c, err, "export monthly reports")
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, reports, now); err != nil {
		return writeError(c, err, "export monthly reports")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+format.Filename(now)+`"`)
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func toReportResponse(r *domain.MonthlyReport) MonthlyReportResponse {
	return MonthlyReportResponse{
		Year:              r.Year,
		Month:             r.Month,
		TotalExpenses:     r.TotalExpenses.StringFixed(2),
		TotalIncome:       r.TotalIncome.StringFixed(2),
		NaiveSavings:      r.NaiveSavings.StringFixed(2),
		RealSavings:       r.RealSavings.StringFixed(2),
		EndOfMonthBalance: r.EndOfMonthBalance.StringFixed(2),
		GeneratedAt:       r.GeneratedAt.Format(time.RFC3339),

		ReconciliationIncomplete: r.ReconciliationIncomplete,
	}
}

func toReportResponses(reports []*domain.MonthlyReport) []MonthlyReportResponse {
	response := make([]MonthlyReportResponse, len(reports))
	for i, r := range reports {
		response[i] = toReportResponse(r)
	}
	return response
}
