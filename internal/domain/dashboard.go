package domain

import "github.com/shopspring/decimal"

// CategoryTotal is one entry of a top-N ranking
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardSummary is the payload behind the main dashboard
type DashboardSummary struct {
	Period                   Period                     `json:"period"`
	TotalBalance             decimal.Decimal            `json:"totalBalance"`
	MonthExpenses            decimal.Decimal            `json:"monthExpenses"`
	MonthIncome              decimal.Decimal            `json:"monthIncome"`
	CurrentSavings           decimal.Decimal            `json:"currentSavings"`
	AccumulatedAnnualSavings decimal.Decimal            `json:"accumulatedAnnualSavings"`
	TopCategories            []CategoryTotal            `json:"topCategories"`
	CategoryBreakdown        map[string]decimal.Decimal `json:"categoryBreakdown"`
	ExpenseTypeBreakdown     map[string]decimal.Decimal `json:"expenseTypeBreakdown"`
	RecurringMonthlyTotal    decimal.Decimal            `json:"recurringMonthlyTotal"`
	AccountCount             int                        `json:"accountCount"`
	TransactionCount         int                        `json:"transactionCount"`
	ReconciliationIncomplete bool                       `json:"reconciliationIncomplete"`
	// Degraded is set when some input came from a stale cache or an empty default
	Degraded bool     `json:"degraded"`
	Warnings []string `json:"warnings,omitempty"`
}

// MonthAnalysis is one row of the monthly analysis series
type MonthAnalysis struct {
	Period        Period          `json:"period"`
	Expenses      decimal.Decimal `json:"expenses"`
	Income        decimal.Decimal `json:"income"`
	NaiveSavings  decimal.Decimal `json:"naiveSavings"`
	RealSavings   decimal.Decimal `json:"realSavings"`
	EndBalance    decimal.Decimal `json:"endBalance"`
	BalanceSource BalanceSource   `json:"balanceSource"`
	HasSnapshot   bool            `json:"hasSnapshot"`
	Incomplete    bool            `json:"reconciliationIncomplete"`
}

// YearAnalysis is one row of the annual analysis series
type YearAnalysis struct {
	Year        int             `json:"year"`
	Expenses    decimal.Decimal `json:"expenses"`
	Income      decimal.Decimal `json:"income"`
	RealSavings decimal.Decimal `json:"realSavings"`
	Incomplete  bool            `json:"reconciliationIncomplete"`
}

// MonthlySeries is the monthly analysis from the first tracked month to the current one
type MonthlySeries struct {
	Months   []MonthAnalysis `json:"months"`
	Degraded bool            `json:"degraded"`
	Warnings []string        `json:"warnings,omitempty"`
}

// AnnualSeries is the annual analysis from the first tracked year to the current one
type AnnualSeries struct {
	Years    []YearAnalysis `json:"years"`
	Degraded bool           `json:"degraded"`
	Warnings []string       `json:"warnings,omitempty"`
}
