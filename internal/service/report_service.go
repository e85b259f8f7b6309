package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/util"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ReportService maintains the monthly snapshots
type ReportService struct {
	clock
	ledger         *Ledger
	reportRepo     domain.ReportRepository
	reconciliation *ReconciliationService
	eventPublisher websocket.EventPublisher
}

// NewReportService creates a new ReportService
func NewReportService(ledger *Ledger, reportRepo domain.ReportRepository, reconciliation *ReconciliationService) *ReportService {
	return &ReportService{
		clock:          clock{now: time.Now},
		ledger:         ledger,
		reportRepo:     reportRepo,
		reconciliation: reconciliation,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ReportService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReportService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// GetMonthlyReports returns every snapshot ordered by (year, month). On a
// ledger outage the last cached list is returned together with the error.
func (s *ReportService) GetMonthlyReports(ctx context.Context) ([]*domain.MonthlyReport, error) {
	return s.ledger.Reports(ctx)
}

// GetMonthlyReport returns the snapshot for one period
func (s *ReportService) GetMonthlyReport(ctx context.Context, month, year int) (*domain.MonthlyReport, error) {
	period, err := domain.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.Get(ctx, period)
}

// RegenerateMonthlyReport recomputes and overwrites the snapshot for a period
func (s *ReportService) RegenerateMonthlyReport(ctx context.Context, month, year int) (*domain.MonthlyReport, error) {
	period, err := domain.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, period)
}

// EnsurePeriodClosed writes the current month's snapshot on its last calendar
// day if it does not exist yet. It reports whether a snapshot was written.
func (s *ReportService) EnsurePeriodClosed(ctx context.Context) (*domain.MonthlyReport, bool, error) {
	now := s.now()
	if !util.IsLastDayOfMonth(now) {
		return nil, false, nil
	}

	period := domain.PeriodOf(now)
	existing, err := s.reportRepo.Get(ctx, period)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrReportNotFound) {
		return nil, false, err
	}

	report, err := s.generate(ctx, period)
	if err != nil {
		return nil, false, err
	}
	log.Info().Int("year", period.Year).Int("month", period.Month).Msg("Closed monthly period")
	return report, true, nil
}

// generate computes the figures for period ignoring any existing snapshot of
// that same period and stores them as one document
func (s *ReportService) generate(ctx context.Context, period domain.Period) (*domain.MonthlyReport, error) {
	v, err := s.reconciliation.loadView(ctx)
	if err != nil {
		return nil, err
	}
	if v.degraded() {
		// never freeze figures computed from stale data
		return nil, domain.ErrLedgerUnavailable
	}
	if err := s.reconciliation.validatePeriod(v, period); err != nil {
		return nil, err
	}
	delete(v.reports, period)

	txns := FilterByPeriod(v.transactions, period)
	rec := s.reconciliation.reconcile(v, period)

	report := &domain.MonthlyReport{
		Year:                     period.Year,
		Month:                    period.Month,
		TotalExpenses:            ExpensesOf(txns),
		TotalIncome:              IncomeOf(txns),
		NaiveSavings:             NaiveSavings(txns),
		RealSavings:              rec.RealSavings,
		EndOfMonthBalance:        rec.EndBalance.Amount,
		GeneratedAt:              s.now().UTC(),
		ReconciliationIncomplete: rec.Incomplete,
		EndBalanceApproximate:    !rec.EndBalance.Source.Authoritative(),
	}
	if rec.Incomplete {
		log.Warn().
			Int("year", period.Year).
			Int("month", period.Month).
			Str("start_source", string(rec.StartBalance.Source)).
			Str("end_source", string(rec.EndBalance.Source)).
			Msg("Snapshot written without an anchored balance")
	}

	if err := s.reportRepo.Put(ctx, report); err != nil {
		log.Error().Err(err).Int("year", period.Year).Int("month", period.Month).Msg("Failed to store monthly report")
		return nil, err
	}
	s.ledger.Invalidate(KeyReports)
	s.publishEvent(websocket.ReportGenerated(report))
	return report, nil
}
