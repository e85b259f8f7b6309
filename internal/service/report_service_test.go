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

func TestReportService_EnsurePeriodClosed_IsIdempotent(t *testing.T) {
	f := newFixture(t, time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	f.seedTransactions(t, testutil.Income(testutil.Date(2025, time.March, 5), 500))
	ctx := context.Background()

	first, written, err := f.reports.EnsurePeriodClosed(ctx)
	require.NoError(t, err)
	require.True(t, written)
	assertDecimal(t, 1000, first.EndOfMonthBalance)
	assertDecimal(t, 500, first.NaiveSavings)

	f.clock.Advance(3 * time.Hour)
	second, written, err := f.reports.EnsurePeriodClosed(ctx)
	require.NoError(t, err)
	assert.False(t, written)
	assert.True(t, first.GeneratedAt.Equal(second.GeneratedAt), "existing snapshot is kept")

	reports, err := f.reports.GetMonthlyReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, []string{"report.generated"}, f.events.types())
}

func TestReportService_EnsurePeriodClosed_OnlyOnLastDay(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 30), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)

	report, written, err := f.reports.EnsurePeriodClosed(context.Background())

	require.NoError(t, err)
	assert.False(t, written)
	assert.Nil(t, report)
}

func TestReportService_IncompleteSnapshotKeepsFlag(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 31), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	f.seedTransactions(t,
		testutil.Expense(testutil.Date(2025, time.March, 3), "Food", 200),
		testutil.Income(testutil.Date(2025, time.March, 5), 500),
	)
	ctx := context.Background()

	before, err := f.reconciliation.GetRealSavings(ctx, 3, 2025)
	require.NoError(t, err)
	require.True(t, before.Incomplete)

	report, written, err := f.reports.EnsurePeriodClosed(ctx)
	require.NoError(t, err)
	require.True(t, written)
	assertDecimal(t, 200, report.TotalExpenses)
	assertDecimal(t, 500, report.TotalIncome)
	assertDecimal(t, 300, report.NaiveSavings)
	assertDecimal(t, 0, report.RealSavings)
	assert.True(t, report.ReconciliationIncomplete)
	// the closing balance is the live one, so it can still anchor April
	assert.False(t, report.EndBalanceApproximate)

	after, err := f.reconciliation.GetRealSavings(ctx, 3, 2025)
	require.NoError(t, err)
	assert.True(t, after.FromSnapshot)
	assert.True(t, after.Incomplete)
	assertDecimal(t, 0, after.RealSavings)

	f.clock.Set(testutil.Date(2025, time.April, 10))
	acc, err := f.reconciliation.AccumulatedRealSavings(ctx, 2025, 4)
	require.NoError(t, err)
	assertDecimal(t, 0, acc.Total)
	assert.True(t, acc.Incomplete)

	april, err := f.reconciliation.GetRealSavings(ctx, 4, 2025)
	require.NoError(t, err)
	assert.Equal(t, domain.BalanceSourceSnapshot, april.StartBalance.Source)
	assert.False(t, april.Incomplete)
}

func TestReportService_ApproximateEndBalanceIsNotAnAnchor(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	f.seedTransactions(t, testutil.Expense(testutil.Date(2025, time.February, 5), "Food", 100))
	ctx := context.Background()

	report, err := f.reports.RegenerateMonthlyReport(ctx, 2, 2025)
	require.NoError(t, err)
	assert.True(t, report.ReconciliationIncomplete)
	assert.True(t, report.EndBalanceApproximate)

	stored, err := f.reportRepo.Get(ctx, domain.Period{Year: 2025, Month: 2})
	require.NoError(t, err)
	assert.True(t, stored.ReconciliationIncomplete, "flag survives the round trip")

	march, err := f.reconciliation.GetRealSavings(ctx, 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, domain.BalanceSourceApproximate, march.StartBalance.Source)
	assert.True(t, march.Incomplete)
	assertDecimal(t, 0, march.RealSavings)
}

func TestReportService_RegenerateIgnoresOwnSnapshot(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 5800)
	f.seedReport(t, testutil.Report(2025, 1, 0, 5000))
	f.seedReport(t, testutil.Report(2025, 2, 1, 1))
	f.seedTransactions(t, testutil.Income(testutil.Date(2025, time.February, 10), 300))
	ctx := context.Background()

	before, err := f.reports.GetMonthlyReports(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	report, err := f.reports.RegenerateMonthlyReport(ctx, 2, 2025)
	require.NoError(t, err)
	assertDecimal(t, 5300, report.EndOfMonthBalance)
	assertDecimal(t, 300, report.RealSavings)

	after, err := f.reports.GetMonthlyReports(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, domain.Period{Year: 2025, Month: 1}, after[0].Period())
	assertDecimal(t, 5300, after[1].EndOfMonthBalance, "reports cache dropped after the write")
}

func TestReportService_RegenerateRejectsFuturePeriod(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})

	_, err := f.reports.RegenerateMonthlyReport(context.Background(), 4, 2025)

	assert.ErrorIs(t, err, domain.ErrFuturePeriod)
}

func TestReportService_RefusesDegradedLedger(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	ctx := context.Background()
	_, err := f.reconciliation.GetRealSavings(ctx, 3, 2025)
	require.NoError(t, err)

	f.failing.FailReads.Store(true)
	f.clock.Advance(2 * time.Hour)

	_, err = f.reports.RegenerateMonthlyReport(ctx, 3, 2025)

	assert.ErrorIs(t, err, domain.ErrLedgerUnavailable)
	assert.Empty(t, f.events.types())
}

func TestReportService_WriteFailureLeavesNoSnapshot(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	f.seedAccount(t, "Main", 1000)
	f.failing.FailWrites.Store(true)
	ctx := context.Background()

	_, err := f.reports.RegenerateMonthlyReport(ctx, 3, 2025)
	assert.ErrorIs(t, err, domain.ErrReportWriteFailed)

	f.failing.FailWrites.Store(false)
	_, err = f.reports.GetMonthlyReport(ctx, 3, 2025)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
	assert.Empty(t, f.events.types())
}
