package service

import (
	"context"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// maxWalkBack bounds how far a reconstruction walks back looking for an anchor
const maxWalkBack = 600

// ReconciliationOptions configures the ledger's fixed starting point
type ReconciliationOptions struct {
	// Epoch is the first month the ledger was used; zero when unknown
	Epoch domain.Period
	// OpeningBalance is the balance at the end of the month before Epoch
	OpeningBalance *decimal.Decimal
}

// ReconciliationService computes real savings from balances and snapshots
type ReconciliationService struct {
	clock
	ledger  *Ledger
	epoch   domain.Period
	opening *decimal.Decimal
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(ledger *Ledger, opts ReconciliationOptions) *ReconciliationService {
	return &ReconciliationService{
		clock:   clock{now: time.Now},
		ledger:  ledger,
		epoch:   opts.Epoch,
		opening: opts.OpeningBalance,
	}
}

// Epoch returns the configured epoch period, zero when none
func (s *ReconciliationService) Epoch() domain.Period {
	return s.epoch
}

// ledgerView is one consistent read of the inputs reconciliation needs.
// Resolved end balances are memoized for the lifetime of the view.
type ledgerView struct {
	current      domain.Period
	accounts     []*domain.Account
	transactions []*domain.Transaction
	reports      map[domain.Period]*domain.MonthlyReport
	naive        map[domain.Period]decimal.Decimal
	earliest     domain.Period
	ends         map[domain.Period]domain.ResolvedBalance
	degradation
}

func (s *ReconciliationService) loadView(ctx context.Context) (*ledgerView, error) {
	v := &ledgerView{
		current: s.currentPeriod(),
		reports: make(map[domain.Period]*domain.MonthlyReport),
		ends:    make(map[domain.Period]domain.ResolvedBalance),
	}

	var err error
	v.accounts, err = s.ledger.Accounts(ctx)
	if err := v.absorb(KeyAccounts, err); err != nil {
		return nil, err
	}
	v.transactions, err = s.ledger.Transactions(ctx)
	if err := v.absorb(KeyTransactions, err); err != nil {
		return nil, err
	}
	reports, err := s.ledger.Reports(ctx)
	if err := v.absorb(KeyReports, err); err != nil {
		return nil, err
	}

	for _, r := range reports {
		v.reports[r.Period()] = r
		v.noteEarliest(r.Period())
	}
	v.naive = naiveByPeriod(v.transactions)
	for p := range v.naive {
		v.noteEarliest(p)
	}
	return v, nil
}

func (v *ledgerView) noteEarliest(p domain.Period) {
	if v.earliest.IsZero() || p.Before(v.earliest) {
		v.earliest = p
	}
}

// floor is the last period a reconstruction may inspect
func (s *ReconciliationService) floor(v *ledgerView) domain.Period {
	if !s.epoch.IsZero() {
		return s.epoch.Previous()
	}
	if v.earliest.IsZero() {
		return v.current.Previous()
	}
	return v.earliest.Previous()
}

func (s *ReconciliationService) validatePeriod(v *ledgerView, p domain.Period) error {
	if _, err := domain.NewPeriod(p.Year, p.Month); err != nil {
		return err
	}
	if p.After(v.current) {
		return domain.ErrFuturePeriod
	}
	return nil
}

// endBalance resolves the total balance at the end of p:
// the live balance for the current month, the snapshot when one exists,
// otherwise the nearest earlier anchor plus the naive savings of every month
// in between. Without an anchor the live balance stands in, flagged approximate.
func (s *ReconciliationService) endBalance(v *ledgerView, p domain.Period) domain.ResolvedBalance {
	if b, ok := v.ends[p]; ok {
		return b
	}

	b := s.resolveEnd(v, p)
	v.ends[p] = b
	return b
}

func (s *ReconciliationService) resolveEnd(v *ledgerView, p domain.Period) domain.ResolvedBalance {
	if p == v.current {
		if len(v.accounts) == 0 {
			return domain.ResolvedBalance{Amount: decimal.Zero, Source: domain.BalanceSourceUnresolved}
		}
		return domain.ResolvedBalance{Amount: domain.TotalBalance(v.accounts), Source: domain.BalanceSourceLive}
	}
	if r, ok := v.reports[p]; ok {
		if r.EndBalanceApproximate {
			return domain.ResolvedBalance{Amount: r.EndOfMonthBalance, Source: domain.BalanceSourceApproximate}
		}
		return domain.ResolvedBalance{Amount: r.EndOfMonthBalance, Source: domain.BalanceSourceSnapshot}
	}

	floor := s.floor(v)
	carried := decimal.Zero
	q := p
	for depth := 0; depth < maxWalkBack && !q.Before(floor); depth++ {
		if q != p {
			if r, ok := v.reports[q]; ok && !r.EndBalanceApproximate {
				return domain.ResolvedBalance{Amount: r.EndOfMonthBalance.Add(carried), Source: domain.BalanceSourceReconstructed}
			}
		}
		if s.opening != nil && q == s.epoch.Previous() {
			source := domain.BalanceSourceReconstructed
			if q == p {
				source = domain.BalanceSourceOpening
			}
			return domain.ResolvedBalance{Amount: s.opening.Add(carried), Source: source}
		}
		carried = carried.Add(v.naive[q])
		q = q.Previous()
	}

	if len(v.accounts) == 0 {
		return domain.ResolvedBalance{Amount: decimal.Zero, Source: domain.BalanceSourceUnresolved}
	}
	return domain.ResolvedBalance{Amount: domain.TotalBalance(v.accounts), Source: domain.BalanceSourceApproximate}
}

// startBalance is the end balance of the previous month
func (s *ReconciliationService) startBalance(v *ledgerView, p domain.Period) domain.ResolvedBalance {
	return s.endBalance(v, p.Previous())
}

// reconcile computes the real savings of p within v. A snapshot's stored
// figure always wins over recomputation.
func (s *ReconciliationService) reconcile(v *ledgerView, p domain.Period) *domain.Reconciliation {
	start := s.startBalance(v, p)
	end := s.endBalance(v, p)
	rec := &domain.Reconciliation{
		Period:       p,
		StartBalance: start,
		EndBalance:   end,
		NaiveSavings: v.naive[p],
	}

	if r, ok := v.reports[p]; ok {
		rec.RealSavings = r.RealSavings
		rec.FromSnapshot = true
		rec.Incomplete = r.ReconciliationIncomplete
		return rec
	}

	if !start.Source.Authoritative() || !end.Source.Authoritative() {
		rec.RealSavings = decimal.Zero
		rec.Incomplete = true
		return rec
	}
	rec.RealSavings = end.Amount.Sub(start.Amount)
	return rec
}

// accumulate sums real savings for months 1..through of year, skipping months
// before the epoch
func (s *ReconciliationService) accumulate(v *ledgerView, year, through int) *domain.AccumulatedSavings {
	acc := &domain.AccumulatedSavings{
		Year:         year,
		ThroughMonth: through,
		Total:        decimal.Zero,
		Degraded:     v.degraded(),
		Warnings:     v.warnings,
	}
	for m := 1; m <= through; m++ {
		p := domain.Period{Year: year, Month: m}
		if !s.epoch.IsZero() && p.Before(s.epoch) {
			continue
		}
		rec := s.reconcile(v, p)
		if rec.Incomplete {
			acc.Incomplete = true
			continue
		}
		acc.Total = acc.Total.Add(rec.RealSavings)
	}
	return acc
}

// ResolveEndBalance returns the total balance at the end of period
func (s *ReconciliationService) ResolveEndBalance(ctx context.Context, period domain.Period) (domain.ResolvedBalance, error) {
	v, err := s.loadView(ctx)
	if err != nil {
		return domain.ResolvedBalance{}, err
	}
	if err := s.validatePeriod(v, period); err != nil {
		return domain.ResolvedBalance{}, err
	}
	b := s.endBalance(v, period)
	b.Degraded = v.degraded()
	return b, nil
}

// ResolveStartBalance returns the total balance at the start of period
func (s *ReconciliationService) ResolveStartBalance(ctx context.Context, period domain.Period) (domain.ResolvedBalance, error) {
	v, err := s.loadView(ctx)
	if err != nil {
		return domain.ResolvedBalance{}, err
	}
	if err := s.validatePeriod(v, period); err != nil {
		return domain.ResolvedBalance{}, err
	}
	b := s.startBalance(v, period)
	b.Degraded = v.degraded()
	return b, nil
}

// GetRealSavings reconciles a single month
func (s *ReconciliationService) GetRealSavings(ctx context.Context, month, year int) (*domain.Reconciliation, error) {
	period, err := domain.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	v, err := s.loadView(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validatePeriod(v, period); err != nil {
		return nil, err
	}
	rec := s.reconcile(v, period)
	rec.Degraded = v.degraded()
	rec.Warnings = v.warnings
	return rec, nil
}

// AccumulatedRealSavings sums real savings for January through throughMonth
// of year. throughMonth is clamped to the current month.
func (s *ReconciliationService) AccumulatedRealSavings(ctx context.Context, year, throughMonth int) (*domain.AccumulatedSavings, error) {
	if _, err := domain.NewPeriod(year, throughMonth); err != nil {
		return nil, err
	}
	v, err := s.loadView(ctx)
	if err != nil {
		return nil, err
	}
	if year > v.current.Year {
		return nil, domain.ErrFuturePeriod
	}
	if year == v.current.Year && throughMonth > v.current.Month {
		throughMonth = v.current.Month
	}
	return s.accumulate(v, year, throughMonth), nil
}
