package service

import (
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestExpensesOf_NetOfPayments(t *testing.T) {
	day := testutil.Date(2025, time.March, 10)
	txns := []*domain.Transaction{
		testutil.Expense(day, "Food", 100),
		testutil.Payment(day, "Food", 30),
	}

	assertDecimal(t, 70, ExpensesOf(txns))
	assertDecimal(t, 0, IncomeOf(txns), "payments are not income")
	assertDecimal(t, -70, NaiveSavings(txns))
}

func TestNaiveSavings_IncomeMinusExpenses(t *testing.T) {
	day := testutil.Date(2025, time.March, 10)
	txns := []*domain.Transaction{
		testutil.Expense(day, "Food", 200),
		testutil.Income(day, 500),
	}

	assertDecimal(t, 300, NaiveSavings(txns))
}

func TestFilterByPeriod(t *testing.T) {
	txns := []*domain.Transaction{
		testutil.Expense(testutil.Date(2025, time.February, 28), "Food", 1),
		testutil.Expense(testutil.Date(2025, time.March, 1), "Food", 2),
		testutil.Expense(testutil.Date(2025, time.March, 31), "Food", 3),
		testutil.Expense(testutil.Date(2025, time.April, 1), "Food", 4),
	}

	got := FilterByPeriod(txns, domain.Period{Year: 2025, Month: 3})

	assert.Len(t, got, 2)
	assertDecimal(t, 5, ExpensesOf(got))
}

func TestGroupByCategory_FirstEncounteredOrder(t *testing.T) {
	day := testutil.Date(2025, time.March, 10)
	txns := []*domain.Transaction{
		testutil.Expense(day, "Transport", 10),
		testutil.Expense(day, "Food", 20),
		testutil.Income(day, 999),
		testutil.Expense(day, "Transport", 5),
		testutil.Expense(day, "", 7),
	}

	got := GroupByCategory(txns, expensesOnly)

	assert.Equal(t, []string{"Transport", "Food", "Uncategorized"}, categoriesOf(got))
	assertDecimal(t, 15, got[0].Total)
	assertDecimal(t, 20, got[1].Total)
}

func TestTopN_OrderAndDeterminism(t *testing.T) {
	totals := []domain.CategoryTotal{
		{Category: "Food", Total: dec(50)},
		{Category: "Housing", Total: dec(80)},
		{Category: "Transport", Total: dec(50)},
		{Category: "Health", Total: dec(10)},
		{Category: "Other", Total: dec(50)},
	}

	got := TopN(totals, 3)

	assert.Equal(t, []string{"Housing", "Food", "Transport"}, categoriesOf(got), "ties keep first-encountered order")
	for i := 0; i < 10; i++ {
		assert.Equal(t, got, TopN(totals, 3))
	}
	assert.Equal(t, "Food", totals[0].Category, "input is not reordered")
}

func TestTopN_FewerThanN(t *testing.T) {
	got := TopN([]domain.CategoryTotal{{Category: "Food", Total: dec(1)}}, 5)
	assert.Len(t, got, 1)

	empty := TopN(nil, 5)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGroupByExpenseType(t *testing.T) {
	day := testutil.Date(2025, time.March, 10)
	food := testutil.Expense(day, "Food", 10)
	fun := testutil.Expense(day, "Entertainment", 25)
	fun.ExpenseType = "Luxury"

	got := TotalsToMap(GroupByExpenseType([]*domain.Transaction{food, fun}, expensesOnly))

	assertDecimal(t, 10, got["Necessary"])
	assertDecimal(t, 25, got["Luxury"])
}

func categoriesOf(totals []domain.CategoryTotal) []string {
	out := make([]string, len(totals))
	for i, c := range totals {
		out[i] = c.Category
	}
	return out
}
