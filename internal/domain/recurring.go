package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Periodicity string

const (
	PeriodicityWeekly    Periodicity = "weekly"
	PeriodicityBiweekly  Periodicity = "biweekly"
	PeriodicityMonthly   Periodicity = "monthly"
	PeriodicityBimonthly Periodicity = "bimonthly"
	PeriodicityQuarterly Periodicity = "quarterly"
	PeriodicityAnnual    Periodicity = "annual"
)

// PeriodicityFactors converts an amount per period into a monthly amount
var PeriodicityFactors = map[Periodicity]decimal.Decimal{
	PeriodicityWeekly:    decimal.RequireFromString("4.33"),  // 52 weeks / 12
	PeriodicityBiweekly:  decimal.RequireFromString("2.17"),  // 26 fortnights / 12
	PeriodicityMonthly:   decimal.NewFromInt(1),
	PeriodicityBimonthly: decimal.RequireFromString("0.5"),
	PeriodicityQuarterly: decimal.RequireFromString("0.33"),
	PeriodicityAnnual:    decimal.RequireFromString("0.083"),
}

var legacyPeriodicities = map[string]Periodicity{
	"semanal":    PeriodicityWeekly,
	"quincenal":  PeriodicityBiweekly,
	"mensual":    PeriodicityMonthly,
	"bimestral":  PeriodicityBimonthly,
	"trimestral": PeriodicityQuarterly,
	"anual":      PeriodicityAnnual,
}

// ParsePeriodicity accepts canonical and legacy periodicity labels
func ParsePeriodicity(s string) (Periodicity, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if _, ok := PeriodicityFactors[Periodicity(v)]; ok {
		return Periodicity(v), nil
	}
	if p, ok := legacyPeriodicities[v]; ok {
		return p, nil
	}
	return "", ErrInvalidPeriodicity
}

// MonthlyEquivalent returns amount × the periodicity factor. p must be a
// canonical periodicity; anything else is ErrInvalidPeriodicity.
func MonthlyEquivalent(amount decimal.Decimal, p Periodicity) (decimal.Decimal, error) {
	factor, ok := PeriodicityFactors[p]
	if !ok {
		return decimal.Zero, ErrInvalidPeriodicity
	}
	return amount.Mul(factor), nil
}

type RecurringExpense struct {
	ID                string          `json:"id"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Amount            decimal.Decimal `json:"amount"`
	Periodicity       Periodicity     `json:"periodicity"`
	MonthlyEquivalent decimal.Decimal `json:"monthlyEquivalent"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// MonthlyBudget sums the monthly equivalent of every recurring expense
func MonthlyBudget(items []*RecurringExpense) decimal.Decimal {
	total := decimal.Zero
	for _, r := range items {
		total = total.Add(r.MonthlyEquivalent)
	}
	return total
}

type RecurringRepository interface {
	Create(ctx context.Context, r *RecurringExpense) (*RecurringExpense, error)
	GetByID(ctx context.Context, id string) (*RecurringExpense, error)
	GetAll(ctx context.Context) ([]*RecurringExpense, error)
	Update(ctx context.Context, r *RecurringExpense) (*RecurringExpense, error)
	Delete(ctx context.Context, id string) error
}
