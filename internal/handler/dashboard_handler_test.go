package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSummary(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))
	env.seedAccount(t, "Main", 1000)
	env.seedAccount(t, "Savings", 500)
	env.seedTransaction(t, testutil.Date(2025, time.March, 2), "expense", "Food", 120)
	env.seedTransaction(t, testutil.Date(2025, time.March, 3), "expense", "Transport", 30)
	env.seedTransaction(t, testutil.Date(2025, time.March, 4), "income", "Work", 400)

	rec := env.do(http.MethodGet, "/api/v1/dashboard/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assert.Empty(t, rec.Header().Get(HeaderDegraded))

	summary := decodeJSON[DashboardSummaryResponse](t, rec)
	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, 3, summary.Month)
	assert.Equal(t, "1500.00", summary.TotalBalance)
	assert.Equal(t, "150.00", summary.MonthExpenses)
	assert.Equal(t, "400.00", summary.MonthIncome)
	assert.Equal(t, "250.00", summary.CurrentSavings)
	assert.Equal(t, 2, summary.AccountCount)
	assert.Equal(t, 3, summary.TransactionCount)
	require.NotEmpty(t, summary.TopCategories)
	assert.Equal(t, "Food", summary.TopCategories[0].Category)
	assert.Equal(t, "120.00", summary.CategoryBreakdown["Food"])
	assert.False(t, summary.Degraded)
}

func TestGetSummary_DegradedWhenLedgerDown(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))
	env.failing.FailAll(true)

	rec := env.do(http.MethodGet, "/api/v1/dashboard/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assert.Equal(t, "true", rec.Header().Get(HeaderDegraded))
	summary := decodeJSON[DashboardSummaryResponse](t, rec)
	assert.True(t, summary.Degraded)
	assert.NotEmpty(t, summary.Warnings)

	// recovers on the next request because degraded summaries are not cached
	env.failing.FailAll(false)
	rec = env.do(http.MethodGet, "/api/v1/dashboard/summary", "")
	assert.Empty(t, rec.Header().Get(HeaderDegraded))
}

func TestGetBudget(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))
	env.seedTransaction(t, testutil.Date(2025, time.March, 2), "expense", "Food", 450)

	require.Equal(t, http.StatusOK, env.do(http.MethodPut, "/api/v1/goals", `{"baseBudget": "1000"}`).Code)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/recurring",
		`{"description": "Gym", "category": "Health", "amount": "50", "periodicity": "monthly"}`).Code)

	rec := env.do(http.MethodGet, "/api/v1/dashboard/budget", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	budget := decodeJSON[BudgetReportResponse](t, rec)
	assert.Equal(t, "1000.00", budget.BaseBudget)
	assert.Equal(t, "50.00", budget.RecurringExpenses)
	assert.Equal(t, "1050.00", budget.TotalBudget)
	assert.Equal(t, "450.00", budget.MonthExpenses)
	assert.Equal(t, "600.00", budget.Remaining)
	assert.Equal(t, "42.86", budget.PercentUsed)
	assert.True(t, budget.WithinBudget)
}

func TestGetMonthlyAnalysis(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))
	env.seedAccount(t, "Main", 1000)
	env.seedTransaction(t, testutil.Date(2025, time.February, 5), "expense", "Food", 100)

	rec := env.do(http.MethodGet, "/api/v1/analysis/monthly", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	type monthRow struct {
		Expenses   decimal.Decimal `json:"expenses"`
		Incomplete bool            `json:"reconciliationIncomplete"`
	}
	series := decodeJSON[struct {
		Months   []monthRow `json:"months"`
		Degraded bool       `json:"degraded"`
	}](t, rec)

	// February through March
	require.Len(t, series.Months, 2)
	assert.True(t, series.Months[0].Expenses.Equal(decimal.NewFromInt(100)))
	assert.True(t, series.Months[0].Incomplete)
	assert.False(t, series.Degraded)
}

func TestGetAnnualAnalysis_EmptyLedger(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	rec := env.do(http.MethodGet, "/api/v1/analysis/annual", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	type yearRow struct {
		Year int `json:"year"`
	}
	series := decodeJSON[struct {
		Years []yearRow `json:"years"`
	}](t, rec)
	require.Len(t, series.Years, 1)
	assert.Equal(t, 2025, series.Years[0].Year)
}
