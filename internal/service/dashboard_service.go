package service

import (
	"context"

	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// DefaultTopN is the number of categories ranked on the dashboard
const DefaultTopN = 5

// DashboardService assembles the dashboard summary
type DashboardService struct {
	ledger         *Ledger
	reconciliation *ReconciliationService
	reports        *ReportService
	topN           int
}

// NewDashboardService creates a new DashboardService. reports may be nil,
// in which case loading the summary never closes the month.
func NewDashboardService(ledger *Ledger, reconciliation *ReconciliationService, reports *ReportService, topN int) *DashboardService {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &DashboardService{
		ledger:         ledger,
		reconciliation: reconciliation,
		reports:        reports,
		topN:           topN,
	}
}

func expensesOnly(t *domain.Transaction) bool { return t.IsExpense() }

// GetSummary returns the summary for the current month. Inputs that could not
// be read are replaced by their last cached value or an empty default, and the
// summary is flagged Degraded. Degraded summaries are never cached.
func (s *DashboardService) GetSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if s.reports != nil {
		if _, _, err := s.reports.EnsurePeriodClosed(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to close monthly period")
		}
	}

	key := cache.Key(KeySummary, s.reconciliation.currentPeriod().String())
	return cached(s.ledger.Cache(), key, func() (*domain.DashboardSummary, bool, error) {
		summary, err := s.build(ctx)
		if err != nil {
			return nil, false, err
		}
		return summary, summary.Degraded, nil
	})
}

func (s *DashboardService) build(ctx context.Context) (*domain.DashboardSummary, error) {
	v, err := s.reconciliation.loadView(ctx)
	if err != nil {
		return nil, err
	}
	recurring, err := s.ledger.Recurring(ctx)
	if err := v.absorb(KeyRecurring, err); err != nil {
		return nil, err
	}

	period := v.current
	month := FilterByPeriod(v.transactions, period)
	acc := s.reconciliation.accumulate(v, period.Year, period.Month)

	summary := &domain.DashboardSummary{
		Period:                   period,
		TotalBalance:             domain.TotalBalance(v.accounts),
		MonthExpenses:            ExpensesOf(month),
		MonthIncome:              IncomeOf(month),
		CurrentSavings:           NaiveSavings(month),
		AccumulatedAnnualSavings: acc.Total,
		TopCategories:            TopN(GroupByCategory(v.transactions, expensesOnly), s.topN),
		CategoryBreakdown:        TotalsToMap(GroupByCategory(month, expensesOnly)),
		ExpenseTypeBreakdown:     TotalsToMap(GroupByExpenseType(month, expensesOnly)),
		RecurringMonthlyTotal:    domain.MonthlyBudget(recurring),
		AccountCount:             len(v.accounts),
		TransactionCount:         len(v.transactions),
		ReconciliationIncomplete: acc.Incomplete,
		Degraded:                 v.degraded(),
		Warnings:                 v.warnings,
	}
	return summary, nil
}
