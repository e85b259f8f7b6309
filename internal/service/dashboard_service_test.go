package service

import (
	"context"
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetSummary(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 5800)
	f.seedAccount(t, "Savings", 200)
	f.seedReport(t, testutil.Report(2025, 1, 100, 5000))

	luxury := testutil.Expense(testutil.Date(2025, time.March, 8), "Entertainment", 120)
	luxury.ExpenseType = "Luxury"
	f.seedTransactions(t,
		testutil.Income(testutil.Date(2025, time.February, 10), 300),
		testutil.Expense(testutil.Date(2025, time.February, 11), "Housing", 900),
		testutil.Income(testutil.Date(2025, time.March, 1), 1000),
		testutil.Expense(testutil.Date(2025, time.March, 2), "Food", 100),
		testutil.Payment(testutil.Date(2025, time.March, 3), "Food", 30),
		luxury,
	)
	_, err := f.recurringRepo.Create(context.Background(), &domain.RecurringExpense{
		Description: "Rent",
		Category:    "Housing",
		Amount:      dec(900),
		Periodicity: domain.PeriodicityMonthly,
	})
	require.NoError(t, err)

	summary, err := f.dashboard.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Period{Year: 2025, Month: 3}, summary.Period)
	assertDecimal(t, 6000, summary.TotalBalance)
	assertDecimal(t, 190, summary.MonthExpenses)
	assertDecimal(t, 1000, summary.MonthIncome)
	assertDecimal(t, 810, summary.CurrentSavings)
	assertDecimal(t, 900, summary.RecurringMonthlyTotal)
	assert.Equal(t, 2, summary.AccountCount)
	assert.Equal(t, 6, summary.TransactionCount)

	// January 100 from its snapshot, February 4400-5000, March 6000-4400
	assertDecimal(t, 1100, summary.AccumulatedAnnualSavings)
	assert.False(t, summary.ReconciliationIncomplete)

	assert.Equal(t, []string{"Housing", "Entertainment", "Food"}, categoriesOf(summary.TopCategories))
	assert.Len(t, summary.CategoryBreakdown, 2)
	assertDecimal(t, 100, summary.CategoryBreakdown["Food"])
	assertDecimal(t, 120, summary.CategoryBreakdown["Entertainment"])
	assertDecimal(t, 120, summary.ExpenseTypeBreakdown["Luxury"])
	assertDecimal(t, 100, summary.ExpenseTypeBreakdown["Necessary"])
	assert.False(t, summary.Degraded)
}

func TestDashboardService_LiveOnlyLedgerIsIncomplete(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	f.seedTransactions(t,
		testutil.Expense(testutil.Date(2025, time.March, 3), "Food", 200),
		testutil.Income(testutil.Date(2025, time.March, 5), 500),
	)

	summary, err := f.dashboard.GetSummary(context.Background())

	require.NoError(t, err)
	assertDecimal(t, 300, summary.CurrentSavings)
	assertDecimal(t, 0, summary.AccumulatedAnnualSavings)
	assert.True(t, summary.ReconciliationIncomplete)
}

func TestDashboardService_CachesSummary(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	ctx := context.Background()

	_, err := f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	f.counting.Reset()

	_, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, f.counting.Reads(domain.CollectionAccounts))
	assert.Equal(t, 0, f.counting.Reads(domain.CollectionTransactions))
}

func TestDashboardService_NoStaleReadAfterCreateAccount(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	ctx := context.Background()

	before, err := f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, before.AccountCount)

	_, err = f.accounts.CreateAccount(ctx, CreateAccountInput{Name: "Savings", InitialBalance: dec(250)})
	require.NoError(t, err)

	after, err := f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, after.AccountCount)
	assertDecimal(t, 1250, after.TotalBalance)
}

func TestDashboardService_DegradesOnLedgerOutage(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	ctx := context.Background()

	_, err := f.dashboard.GetSummary(ctx)
	require.NoError(t, err)

	f.failing.FailReads.Store(true)
	f.clock.Advance(2 * time.Hour)

	summary, err := f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Degraded)
	assert.NotEmpty(t, summary.Warnings)
	assertDecimal(t, 1000, summary.TotalBalance, "last known accounts")

	f.failing.FailReads.Store(false)
	f.counting.Reset()

	summary, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)
	assert.False(t, summary.Degraded, "degraded summaries are not cached")
	assert.Positive(t, f.counting.Reads(domain.CollectionAccounts))
}

func TestDashboardService_ClosesPeriodOnLastDay(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 31), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	ctx := context.Background()

	// nothing closes the month until a request does
	_, err := f.reports.GetMonthlyReport(ctx, 3, 2025)
	require.ErrorIs(t, err, domain.ErrReportNotFound)

	_, err = f.dashboard.GetSummary(ctx)
	require.NoError(t, err)

	report, err := f.reports.GetMonthlyReport(ctx, 3, 2025)
	require.NoError(t, err)
	assertDecimal(t, 1000, report.EndOfMonthBalance)
	assert.Equal(t, []string{"report.generated"}, f.events.types())
}
