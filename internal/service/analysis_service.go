package service

import (
	"context"

	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
)

// AnalysisService builds the month-by-month and year-by-year history
type AnalysisService struct {
	ledger         *Ledger
	reconciliation *ReconciliationService
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(ledger *Ledger, reconciliation *ReconciliationService) *AnalysisService {
	return &AnalysisService{ledger: ledger, reconciliation: reconciliation}
}

// firstPeriod is where the history starts: the epoch when configured,
// otherwise the earliest month with data, never more than maxWalkBack
// months before the current one
func (s *AnalysisService) firstPeriod(v *ledgerView) domain.Period {
	first := s.reconciliation.Epoch()
	if first.IsZero() {
		first = v.earliest
	}
	if first.IsZero() || first.After(v.current) {
		return v.current
	}
	if first.MonthsBetween(v.current) >= maxWalkBack {
		first = v.current
		for i := 1; i < maxWalkBack; i++ {
			first = first.Previous()
		}
	}
	return first
}

// GetMonthlyAnalysis returns one row per month up to the current month
func (s *AnalysisService) GetMonthlyAnalysis(ctx context.Context) (*domain.MonthlySeries, error) {
	key := cache.Key(KeyAnalysis, "monthly-"+s.reconciliation.currentPeriod().String())
	return cached(s.ledger.Cache(), key, func() (*domain.MonthlySeries, bool, error) {
		v, err := s.reconciliation.loadView(ctx)
		if err != nil {
			return nil, false, err
		}

		series := &domain.MonthlySeries{Months: []domain.MonthAnalysis{}}
		for p := s.firstPeriod(v); !p.After(v.current); p = p.Next() {
			txns := FilterByPeriod(v.transactions, p)
			rec := s.reconciliation.reconcile(v, p)
			series.Months = append(series.Months, domain.MonthAnalysis{
				Period:        p,
				Expenses:      ExpensesOf(txns),
				Income:        IncomeOf(txns),
				NaiveSavings:  NaiveSavings(txns),
				RealSavings:   rec.RealSavings,
				EndBalance:    rec.EndBalance.Amount,
				BalanceSource: rec.EndBalance.Source,
				HasSnapshot:   rec.FromSnapshot,
				Incomplete:    rec.Incomplete,
			})
		}
		series.Degraded = v.degraded()
		series.Warnings = v.warnings
		return series, series.Degraded, nil
	})
}

// GetAnnualAnalysis returns one row per year. Real savings per year are the
// accumulated real savings, preferring snapshots.
func (s *AnalysisService) GetAnnualAnalysis(ctx context.Context) (*domain.AnnualSeries, error) {
	key := cache.Key(KeyAnalysis, "annual-"+s.reconciliation.currentPeriod().String())
	return cached(s.ledger.Cache(), key, func() (*domain.AnnualSeries, bool, error) {
		v, err := s.reconciliation.loadView(ctx)
		if err != nil {
			return nil, false, err
		}

		first := s.firstPeriod(v)
		series := &domain.AnnualSeries{Years: []domain.YearAnalysis{}}
		for year := first.Year; year <= v.current.Year; year++ {
			through := 12
			if year == v.current.Year {
				through = v.current.Month
			}
			row := domain.YearAnalysis{Year: year}
			for m := 1; m <= through; m++ {
				p := domain.Period{Year: year, Month: m}
				if p.Before(first) {
					continue
				}
				txns := FilterByPeriod(v.transactions, p)
				row.Expenses = row.Expenses.Add(ExpensesOf(txns))
				row.Income = row.Income.Add(IncomeOf(txns))
			}
			acc := s.reconciliation.accumulate(v, year, through)
			row.RealSavings = acc.Total
			row.Incomplete = acc.Incomplete
			series.Years = append(series.Years, row)
		}
		series.Degraded = v.degraded()
		series.Warnings = v.warnings
		return series, series.Degraded, nil
	})
}
