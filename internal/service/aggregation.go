package service

import (
	"sort"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// FilterByPeriod returns the transactions dated within p
func FilterByPeriod(txns []*domain.Transaction, p domain.Period) []*domain.Transaction {
	out := make([]*domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if p.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// ExpensesOf returns expenses net of payments
func ExpensesOf(txns []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		switch t.Kind {
		case domain.TransactionKindExpense:
			total = total.Add(t.Amount)
		case domain.TransactionKindPayment:
			total = total.Sub(t.Amount)
		}
	}
	return total
}

// IncomeOf sums income transactions. Payments are not income.
func IncomeOf(txns []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.IsIncome() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// NaiveSavings is income minus net expenses
func NaiveSavings(txns []*domain.Transaction) decimal.Decimal {
	return IncomeOf(txns).Sub(ExpensesOf(txns))
}

// GroupByCategory sums the amounts of matching transactions per category,
// in the order categories are first encountered
func GroupByCategory(txns []*domain.Transaction, match func(*domain.Transaction) bool) []domain.CategoryTotal {
	return groupBy(txns, match, func(t *domain.Transaction) string { return t.Category })
}

// GroupByExpenseType sums the amounts of matching transactions per expense type
func GroupByExpenseType(txns []*domain.Transaction, match func(*domain.Transaction) bool) []domain.CategoryTotal {
	return groupBy(txns, match, func(t *domain.Transaction) string { return t.ExpenseType })
}

func groupBy(txns []*domain.Transaction, match func(*domain.Transaction) bool, keyOf func(*domain.Transaction) string) []domain.CategoryTotal {
	index := make(map[string]int)
	var totals []domain.CategoryTotal
	for _, t := range txns {
		if match != nil && !match(t) {
			continue
		}
		key := keyOf(t)
		if key == "" {
			key = "Uncategorized"
		}
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, domain.CategoryTotal{Category: key, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(t.Amount)
	}
	return totals
}

// TopN sorts totals descending, keeping first-encountered order among ties,
// and truncates to n. The input is not modified.
func TopN(totals []domain.CategoryTotal, n int) []domain.CategoryTotal {
	sorted := make([]domain.CategoryTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total.GreaterThan(sorted[j].Total)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TotalsToMap flattens grouped totals for JSON breakdowns
func TotalsToMap(totals []domain.CategoryTotal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		out[t.Category] = t.Total
	}
	return out
}

// naiveByPeriod computes naive savings for every period that has transactions
func naiveByPeriod(txns []*domain.Transaction) map[domain.Period]decimal.Decimal {
	out := make(map[domain.Period]decimal.Decimal)
	for _, t := range txns {
		p := domain.PeriodOf(t.Date)
		v := out[p]
		switch t.Kind {
		case domain.TransactionKindIncome:
			v = v.Add(t.Amount)
		case domain.TransactionKindExpense:
			v = v.Sub(t.Amount)
		case domain.TransactionKindPayment:
			v = v.Add(t.Amount)
		}
		out[p] = v
	}
	return out
}
