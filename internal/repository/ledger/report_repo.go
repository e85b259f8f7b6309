package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/rs/zerolog/log"
)

// ReportRepository implements domain.ReportRepository. Each snapshot is one
// document under reports/{year}_{MM}.
type ReportRepository struct {
	store domain.LedgerStore
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(store domain.LedgerStore) *ReportRepository {
	return &ReportRepository{store: store}
}

func (r *ReportRepository) Get(ctx context.Context, period domain.Period) (*domain.MonthlyReport, error) {
	report, found, err := getDoc[domain.MonthlyReport](ctx, r.store, reportPath(period))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrReportNotFound
	}
	report.Year, report.Month = period.Year, period.Month
	return report, nil
}

// GetAll returns every snapshot ordered by (year, month)
func (r *ReportRepository) GetAll(ctx context.Context) ([]*domain.MonthlyReport, error) {
	docs, err := getCollection[domain.MonthlyReport](ctx, r.store, domain.CollectionReports)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.MonthlyReport, 0, len(docs))
	for key, doc := range docs {
		if _, err := domain.NewPeriod(doc.Year, doc.Month); err != nil {
			log.Warn().Str("report_key", key).Msg("Skipping report with invalid period")
			continue
		}
		report := doc
		reports = append(reports, &report)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Period().Before(reports[j].Period())
	})
	return reports, nil
}

// Put writes the whole report as a single document
func (r *ReportRepository) Put(ctx context.Context, report *domain.MonthlyReport) error {
	period, err := domain.NewPeriod(report.Year, report.Month)
	if err != nil {
		return err
	}
	if err := putDoc(ctx, r.store, reportPath(period), report); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrReportWriteFailed, err)
	}
	return nil
}

func reportPath(p domain.Period) string {
	return kvtree.Join(domain.CollectionReports, p.Key())
}
