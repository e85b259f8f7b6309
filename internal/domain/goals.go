package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Goals struct {
	MonthlyTarget decimal.Decimal `json:"monthlyTarget"`
	AnnualTarget  decimal.Decimal `json:"annualTarget"`
	// BaseBudget is the discretionary monthly budget on top of recurring expenses
	BaseBudget decimal.Decimal `json:"baseBudget"`
}

type GoalsRepository interface {
	Get(ctx context.Context) (*Goals, error)
	Put(ctx context.Context, goals *Goals) error
}

// SavingsProgress compares savings against the configured targets
type SavingsProgress struct {
	MonthlyTarget     decimal.Decimal `json:"monthlyTarget"`
	AnnualTarget      decimal.Decimal `json:"annualTarget"`
	MonthSavings      decimal.Decimal `json:"monthSavings"`
	YearSavings       decimal.Decimal `json:"yearSavings"`
	MonthlyProgress   decimal.Decimal `json:"monthlyProgress"`
	AnnualProgress    decimal.Decimal `json:"annualProgress"`
	MonthlyDifference decimal.Decimal `json:"monthlyDifference"`
	AnnualDifference  decimal.Decimal `json:"annualDifference"`
}

// BudgetReport compares the month's expenses against the budget
type BudgetReport struct {
	BaseBudget        decimal.Decimal `json:"baseBudget"`
	RecurringExpenses decimal.Decimal `json:"recurringExpenses"`
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	MonthExpenses     decimal.Decimal `json:"monthExpenses"`
	Remaining         decimal.Decimal `json:"remaining"`
	PercentUsed       decimal.Decimal `json:"percentUsed"`
	WithinBudget      bool            `json:"withinBudget"`
}
