package service

import (
	"context"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// maxProgress caps both the monthly and the annual goal progress
	maxProgress = decimal.NewFromInt(200)
)

// GoalsService handles savings targets, progress and the monthly budget
type GoalsService struct {
	clock
	ledger         *Ledger
	goalsRepo      domain.GoalsRepository
	reconciliation *ReconciliationService
	eventPublisher websocket.EventPublisher
}

// NewGoalsService creates a new GoalsService
func NewGoalsService(ledger *Ledger, goalsRepo domain.GoalsRepository, reconciliation *ReconciliationService) *GoalsService {
	return &GoalsService{
		clock:          clock{now: time.Now},
		ledger:         ledger,
		goalsRepo:      goalsRepo,
		reconciliation: reconciliation,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *GoalsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetGoals returns the configured targets, zero when never set
func (s *GoalsService) GetGoals(ctx context.Context) (*domain.Goals, error) {
	return s.ledger.Goals(ctx)
}

// UpdateGoals replaces the targets. Negative values are rejected.
func (s *GoalsService) UpdateGoals(ctx context.Context, goals domain.Goals) (*domain.Goals, error) {
	if goals.MonthlyTarget.IsNegative() || goals.AnnualTarget.IsNegative() || goals.BaseBudget.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if err := s.goalsRepo.Put(ctx, &goals); err != nil {
		log.Error().Err(err).Msg("Failed to update goals")
		return nil, err
	}
	s.ledger.Invalidate(KeyGoals)
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeGoals, goals))
	}
	return &goals, nil
}

// percentOf returns value/target as a percentage clamped to [0, limit].
// A zero target yields zero.
func percentOf(value, target, limit decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	pct := value.Div(target).Mul(hundred).Round(2)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(limit) {
		return limit
	}
	return pct
}

// GetSavingsProgress compares this month's naive savings and the year's
// accumulated real savings against the targets
func (s *GoalsService) GetSavingsProgress(ctx context.Context) (*domain.SavingsProgress, error) {
	goals, err := s.ledger.Goals(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.ledger.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	period := s.currentPeriod()
	acc, err := s.reconciliation.AccumulatedRealSavings(ctx, period.Year, period.Month)
	if err != nil {
		return nil, err
	}

	month := NaiveSavings(FilterByPeriod(txns, period))
	return &domain.SavingsProgress{
		MonthlyTarget:     goals.MonthlyTarget,
		AnnualTarget:      goals.AnnualTarget,
		MonthSavings:      month,
		YearSavings:       acc.Total,
		MonthlyProgress:   percentOf(month, goals.MonthlyTarget, maxProgress),
		AnnualProgress:    percentOf(acc.Total, goals.AnnualTarget, maxProgress),
		MonthlyDifference: month.Sub(goals.MonthlyTarget),
		AnnualDifference:  acc.Total.Sub(goals.AnnualTarget),
	}, nil
}

// GetBudgetReport compares the current month's expenses against the base
// budget plus the recurring monthly total
func (s *GoalsService) GetBudgetReport(ctx context.Context) (*domain.BudgetReport, error) {
	goals, err := s.ledger.Goals(ctx)
	if err != nil {
		return nil, err
	}
	recurring, err := s.ledger.Recurring(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.ledger.Transactions(ctx)
	if err != nil {
		return nil, err
	}

	recurringTotal := domain.MonthlyBudget(recurring)
	total := goals.BaseBudget.Add(recurringTotal)
	spent := ExpensesOf(FilterByPeriod(txns, s.currentPeriod()))
	return &domain.BudgetReport{
		BaseBudget:        goals.BaseBudget,
		RecurringExpenses: recurringTotal,
		TotalBudget:       total,
		MonthExpenses:     spent,
		Remaining:         total.Sub(spent),
		PercentUsed:       percentOf(spent, total, decimal.NewFromInt(1000)),
		WithinBudget:      spent.LessThanOrEqual(total),
	}, nil
}
