package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoals_DefaultsToZero(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	rec := env.do(http.MethodGet, "/api/v1/goals", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	goals := decodeJSON[GoalsResponse](t, rec)
	assert.Equal(t, "0.00", goals.MonthlyTarget)
	assert.Equal(t, "0.00", goals.AnnualTarget)
	assert.Equal(t, "0.00", goals.BaseBudget)
}

func TestUpdateGoals(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	rec := env.do(http.MethodPut, "/api/v1/goals", `{"monthlyTarget": "100", "annualTarget": "1200", "baseBudget": "800"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	goals := decodeJSON[GoalsResponse](t, env.do(http.MethodGet, "/api/v1/goals", ""))
	assert.Equal(t, "100.00", goals.MonthlyTarget)
	assert.Equal(t, "1200.00", goals.AnnualTarget)
	assert.Equal(t, "800.00", goals.BaseBudget)
}

func TestUpdateGoals_ValidationErrors(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	assertProblem(t, env.do(http.MethodPut, "/api/v1/goals", `{"monthlyTarget": "abc"}`), http.StatusBadRequest, "monthlyTarget")
	assertProblem(t, env.do(http.MethodPut, "/api/v1/goals", `{"annualTarget": "-1"}`), http.StatusBadRequest, "amount")
}

func TestGetProgress(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))
	env.seedAccount(t, "Main", 1000)
	env.seedTransaction(t, testutil.Date(2025, time.March, 2), "expense", "Food", 150)
	env.seedTransaction(t, testutil.Date(2025, time.March, 4), "income", "Work", 400)
	require.Equal(t, http.StatusOK, env.do(http.MethodPut, "/api/v1/goals", `{"monthlyTarget": "100", "annualTarget": "1200"}`).Code)

	rec := env.do(http.MethodGet, "/api/v1/goals/progress", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	progress := decodeJSON[SavingsProgressResponse](t, rec)
	assert.Equal(t, "250.00", progress.MonthSavings)
	// capped at 200%
	assert.Equal(t, "200.00", progress.MonthlyProgress)
	assert.Equal(t, "150.00", progress.MonthlyDifference)
	// no month can be reconciled without an anchor
	assert.Equal(t, "0.00", progress.YearSavings)
	assert.Equal(t, "0.00", progress.AnnualProgress)
	assert.Equal(t, "-1200.00", progress.AnnualDifference)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	rec := env.do(http.MethodGet, "/api/v1/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	defaults := decodeJSON[domain.Settings](t, rec)
	assert.Contains(t, defaults.Categories, "Food")
	assert.Contains(t, defaults.ExpenseTypes, "Necessary")

	rec = env.do(http.MethodPost, "/api/v1/settings/categories", `{"name": "Pets"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	assert.Contains(t, decodeJSON[domain.Settings](t, rec).Categories, "Pets")

	rec = env.do(http.MethodPost, "/api/v1/settings/expense-types", `{"name": "Gifts"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	assert.Contains(t, decodeJSON[domain.Settings](t, rec).ExpenseTypes, "Gifts")
}

func TestSettings_AddErrors(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	assertProblem(t, env.do(http.MethodPost, "/api/v1/settings/categories", `{"name": "food"}`), http.StatusConflict, "")
	assertProblem(t, env.do(http.MethodPost, "/api/v1/settings/expense-types", `{"name": "  "}`), http.StatusBadRequest, "name")
}

func TestRecurring(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	rec := env.do(http.MethodPost, "/api/v1/recurring",
		`{"description": "Streaming", "category": "Entertainment", "amount": "30", "periodicity": "quarterly"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeJSON[RecurringResponse](t, rec)
	assert.Equal(t, "9.90", created.MonthlyEquivalent)

	assertProblem(t, env.do(http.MethodPost, "/api/v1/recurring",
		`{"description": "streaming", "category": "Entertainment", "amount": "5", "periodicity": "monthly"}`), http.StatusConflict, "")
	assertProblem(t, env.do(http.MethodPost, "/api/v1/recurring",
		`{"description": "Rent", "category": "Housing", "amount": "5", "periodicity": "daily"}`), http.StatusBadRequest, "periodicity")

	list := decodeJSON[RecurringListResponse](t, env.do(http.MethodGet, "/api/v1/recurring", ""))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "9.90", list.MonthlyTotal)

	rec = env.do(http.MethodPut, "/api/v1/recurring/"+created.ID,
		`{"description": "Streaming", "category": "Entertainment", "amount": "12", "periodicity": "monthly"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	assert.Equal(t, "12.00", decodeJSON[RecurringResponse](t, rec).MonthlyEquivalent)

	if rec := env.do(http.MethodDelete, "/api/v1/recurring/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rec.Code)
	}
}

func TestHealthAndOpenAPI(t *testing.T) {
	env := newTestEnv(t, testutil.Date(2025, time.March, 10))

	if rec := env.do(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from /health, got %d", rec.Code)
	}

	rec := env.do(http.MethodGet, "/openapi.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from /openapi.json, got %d", rec.Code)
	}
	doc := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/reports/{year}/{month}/regenerate")
}
