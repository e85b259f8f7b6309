package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/app"
	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/memory"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/dafibh/finanzas/finanzas-backend/internal/testutil"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testEnv serves the full route table over an in-memory ledger
type testEnv struct {
	e        *echo.Echo
	services *app.Services
	failing  *testutil.FailingStore
	clock    *testutil.Clock
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	env := &testEnv{
		failing: testutil.NewFailingStore(memory.NewStore()),
		clock:   testutil.NewClock(now),
	}
	env.services = app.NewServices(env.failing, cache.New(time.Hour).WithClock(env.clock.Now), app.Options{
		TopN: service.DefaultTopN,
		Now:  env.clock.Now,
	})

	reportHandler := NewReportHandler(env.services.Reports)
	reportHandler.now = env.clock.Now

	env.e = echo.New()
	RegisterRoutes(env.e, nil, Handlers{
		Account:     NewAccountHandler(env.services.Accounts),
		Transaction: NewTransactionHandler(env.services.Transactions),
		Recurring:   NewRecurringHandler(env.services.Recurring),
		Report:      reportHandler,
		Dashboard:   NewDashboardHandler(env.services.Dashboard, env.services.Goals),
		Analysis:    NewAnalysisHandler(env.services.Analysis),
		Savings:     NewSavingsHandler(env.services.Reconciliation),
		Goals:       NewGoalsHandler(env.services.Goals),
		Settings:    NewSettingsHandler(env.services.Settings),
		WebSocket:   NewWebSocketHandler(websocket.NewHub(), nil),
	})
	return env
}

func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedAccount(t *testing.T, name string, balance int64) *domain.Account {
	t.Helper()
	a, err := env.services.Accounts.CreateAccount(context.Background(), service.CreateAccountInput{
		Name:           name,
		InitialBalance: decimal.NewFromInt(balance),
	})
	require.NoError(t, err)
	return a
}

func (env *testEnv) seedTransaction(t *testing.T, date time.Time, kind, category string, amount int64) {
	t.Helper()
	_, err := env.services.Transactions.CreateTransaction(context.Background(), service.TransactionInput{
		Date:        date,
		Concept:     category + " entry",
		Category:    category,
		ExpenseType: "Necessary",
		Amount:      decimal.NewFromInt(amount),
		Kind:        kind,
	})
	require.NoError(t, err)
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to unmarshal response: %v (body %s)", err, rec.Body.String())
	}
	return out
}

func assertProblem(t *testing.T, rec *httptest.ResponseRecorder, status int, field string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("Expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	problem := decodeJSON[ProblemDetails](t, rec)
	if problem.Status != status {
		t.Errorf("Expected problem status %d, got %d", status, problem.Status)
	}
	if field == "" {
		return
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != field {
		t.Errorf("Expected a single error on %q, got %+v", field, problem.Errors)
	}
}
