package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(memory.NewStore())

	created, err := repo.Create(ctx, &domain.Account{Name: "Bank", Balance: decimal.NewFromInt(500), CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bank", got.Name)
	assert.Equal(t, "500.00", got.Balance.StringFixed(2))

	got.Balance = decimal.NewFromInt(750)
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "750.00", all[0].Balance.StringFixed(2))

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_UpdateMissing(t *testing.T) {
	repo := NewAccountRepository(memory.NewStore())
	_, err := repo.Update(context.Background(), &domain.Account{ID: "nope", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), domain.ErrAccountNotFound)
}

func TestAccountRepository_GetAllOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(memory.NewStore())
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = repo.Create(ctx, &domain.Account{Name: "Second", CreatedAt: base.Add(time.Hour)})
	_, _ = repo.Create(ctx, &domain.Account{Name: "First", CreatedAt: base})

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "First", all[0].Name)
	assert.Equal(t, "Second", all[1].Name)
}

func TestTransactionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(memory.NewStore())

	created, err := repo.Create(ctx, &domain.Transaction{
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Concept:     "Groceries",
		Category:    "Food",
		ExpenseType: "Necessary",
		Amount:      decimal.RequireFromString("42.50"),
		Kind:        domain.TransactionKindExpense,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Concept)
	assert.Equal(t, domain.TransactionKindExpense, got.Kind)
	assert.Equal(t, "2025-03-10", got.Date.Format("2006-01-02"))
	assert.Equal(t, "42.50", got.Amount.StringFixed(2))
}

func TestTransactionRepository_AcceptsLegacyKindsAndSkipsInvalid(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, "transactions/a", []byte(`{"date":"2025-03-01","concept":"Salary","category":"Work","amount":1000,"kind":"Ingreso"}`)))
	require.NoError(t, store.Set(ctx, "transactions/b", []byte(`{"date":"2025-03-02","concept":"Refund","category":"Food","amount":"30","kind":"Pago"}`)))
	require.NoError(t, store.Set(ctx, "transactions/c", []byte(`{"date":"2025-03-03","concept":"?","category":"?","amount":"1","kind":"transfer"}`)))
	require.NoError(t, store.Set(ctx, "transactions/d", []byte(`not json`)))

	txns, err := NewTransactionRepository(store).GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, domain.TransactionKindIncome, txns[0].Kind)
	assert.Equal(t, domain.TransactionKindPayment, txns[1].Kind)
}

func TestRecurringRepository_DerivesMonthlyEquivalent(t *testing.T) {
	ctx := context.Background()
	repo := NewRecurringRepository(memory.NewStore())

	created, err := repo.Create(ctx, &domain.RecurringExpense{
		Description: "Gym",
		Category:    "Health",
		Amount:      decimal.NewFromInt(100),
		Periodicity: domain.PeriodicityWeekly,
	})
	require.NoError(t, err)
	assert.Equal(t, "433.00", created.MonthlyEquivalent.StringFixed(2))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "433.00", all[0].MonthlyEquivalent.StringFixed(2))
}

func TestReportRepository_PutGetAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(memory.NewStore())

	for _, p := range []domain.Period{{Year: 2025, Month: 3}, {Year: 2024, Month: 12}, {Year: 2025, Month: 1}} {
		require.NoError(t, repo.Put(ctx, &domain.MonthlyReport{
			Year:        p.Year,
			Month:       p.Month,
			RealSavings: decimal.NewFromInt(int64(p.Month)),
		}))
	}

	got, err := repo.Get(ctx, domain.Period{Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, "3", got.RealSavings.String())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.Period{Year: 2024, Month: 12}, all[0].Period())
	assert.Equal(t, domain.Period{Year: 2025, Month: 1}, all[1].Period())
	assert.Equal(t, domain.Period{Year: 2025, Month: 3}, all[2].Period())

	_, err = repo.Get(ctx, domain.Period{Year: 2025, Month: 4})
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestReportRepository_StoredUnderPeriodKey(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewReportRepository(store)

	require.NoError(t, repo.Put(ctx, &domain.MonthlyReport{Year: 2025, Month: 3}))

	_, found, err := store.Get(ctx, "reports/2025_03")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGoalsRepository_DefaultsToZero(t *testing.T) {
	ctx := context.Background()
	repo := NewGoalsRepository(memory.NewStore())

	goals, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, goals.MonthlyTarget.IsZero())

	require.NoError(t, repo.Put(ctx, &domain.Goals{MonthlyTarget: decimal.NewFromInt(300), AnnualTarget: decimal.NewFromInt(3600)}))
	goals, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "300.00", goals.MonthlyTarget.StringFixed(2))
}

func TestSettingsRepository_NotFoundUntilWritten(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(memory.NewStore())

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Put(ctx, domain.DefaultSettings()))
	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Contains(t, settings.Categories, "Food")
}
