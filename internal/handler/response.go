package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation  = "https://finanzas.app/errors/validation"
	ErrorTypeNotFound    = "https://finanzas.app/errors/not-found"
	ErrorTypeConflict    = "https://finanzas.app/errors/conflict"
	ErrorTypeUnavailable = "https://finanzas.app/errors/ledger-unavailable"
	ErrorTypeInternal    = "https://finanzas.app/errors/internal"
)

// HeaderDegraded is set on read responses served from stale or empty data
const HeaderDegraded = "X-Ledger-Degraded"

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnavailableError creates a 503 response for ledger outages
func NewUnavailableError(c echo.Context, detail string) error {
	c.Response().Header().Set("Retry-After", "30")
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Ledger Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

var validationFields = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrNameRequired, "name", "Name is required"},
	{domain.ErrNameTooLong, "name", "Must be 255 characters or less"},
	{domain.ErrConceptRequired, "concept", "Concept is required"},
	{domain.ErrCategoryRequired, "category", "Category is required"},
	{domain.ErrAmountNotPositive, "amount", "Amount must be greater than zero"},
	{domain.ErrNegativeAmount, "amount", "Amount cannot be negative"},
	{domain.ErrInsufficientFunds, "amount", "Insufficient funds"},
	{domain.ErrFutureDate, "date", "Date cannot be in the future"},
	{domain.ErrInvalidKind, "kind", "Kind must be one of: expense, income, payment"},
	{domain.ErrInvalidPeriodicity, "periodicity", "Periodicity must be one of: weekly, biweekly, monthly, bimonthly, quarterly, annual"},
	{domain.ErrInvalidPeriod, "period", "Month must be 1-12 and year 2000-2100"},
	{domain.ErrFuturePeriod, "period", "Period is in the future"},
	{domain.ErrUnsupportedFormat, "format", "Format must be csv or pdf"},
	{domain.ErrInvalidInput, "", "Invalid input"},
}

var notFoundErrors = []error{
	domain.ErrAccountNotFound,
	domain.ErrTransactionNotFound,
	domain.ErrRecurringNotFound,
	domain.ErrReportNotFound,
	domain.ErrNotFound,
}

var conflictErrors = []error{
	domain.ErrAccountNameExists,
	domain.ErrRecurringExists,
	domain.ErrCategoryExists,
	domain.ErrExpenseTypeExists,
}

// writeError maps a service error to its problem response. action names the
// failed operation for logs and 500 details, e.g. "create account".
func writeError(c echo.Context, err error, action string) error {
	for _, v := range validationFields {
		if errors.Is(err, v.err) {
			return invalidField(c, v.field, v.message)
		}
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			return NewNotFoundError(c, capitalize(nf.Error()))
		}
	}
	for _, cf := range conflictErrors {
		if errors.Is(err, cf) {
			return NewConflictError(c, capitalize(cf.Error()))
		}
	}
	if errors.Is(err, domain.ErrLedgerUnavailable) || errors.Is(err, domain.ErrReportWriteFailed) {
		log.Warn().Err(err).Str("action", action).Msg("Ledger unavailable")
		return NewUnavailableError(c, "The ledger is temporarily unavailable. Please retry.")
	}

	log.Error().Err(err).Str("action", action).Msg("Request failed")
	return NewInternalError(c, "Failed to "+action)
}

// writeList serves data read through the cache. A ledger outage with a
// fallback value is still a 200, flagged with HeaderDegraded.
func writeList(c echo.Context, data any, err error, action string) error {
	if err != nil {
		if !errors.Is(err, domain.ErrLedgerUnavailable) {
			return writeError(c, err, action)
		}
		log.Warn().Err(err).Str("action", action).Msg("Serving last known data")
		c.Response().Header().Set(HeaderDegraded, "true")
	}
	return c.JSON(http.StatusOK, data)
}

// markDegraded flags responses whose payload carries a degraded marker
func markDegraded(c echo.Context, degraded bool) {
	if degraded {
		c.Response().Header().Set(HeaderDegraded, "true")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// invalidField writes a validation error for a single field
func invalidField(c echo.Context, field, message string) error {
	return NewValidationError(c, "Validation failed", []ValidationError{{Field: field, Message: message}})
}

// parseAmount parses a decimal field. Empty input is zero when optional.
func parseAmount(raw string, optional bool) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" && optional {
		return decimal.Zero, true
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// parsePeriodParams reads :year and :month path parameters
func parsePeriodParams(c echo.Context) (domain.Period, bool) {
	year, yerr := strconv.Atoi(c.Param("year"))
	month, merr := strconv.Atoi(c.Param("month"))
	if yerr != nil || merr != nil {
		return domain.Period{}, false
	}
	p, err := domain.NewPeriod(year, month)
	return p, err == nil
}
