package service

import (
	"context"
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_SeedsDefaults(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	ctx := context.Background()

	settings, err := f.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	stored, err := f.settingsRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Categories, stored.Categories)
}

func TestSettingsService_AddCategory(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	ctx := context.Background()

	_, err := f.settings.AddCategory(ctx, "  food ")
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	_, err = f.settings.AddCategory(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	updated, err := f.settings.AddCategory(ctx, " Pets ")
	require.NoError(t, err)
	assert.Contains(t, updated.Categories, "Pets")

	settings, err := f.settings.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pets", settings.Categories[len(settings.Categories)-1])
	assert.Equal(t, []string{"settings.updated"}, f.events.types())
}

func TestSettingsService_AddExpenseType(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	ctx := context.Background()

	_, err := f.settings.AddExpenseType(ctx, "LUXURY")
	assert.ErrorIs(t, err, domain.ErrExpenseTypeExists)

	updated, err := f.settings.AddExpenseType(ctx, "Investment")
	require.NoError(t, err)
	assert.Contains(t, updated.ExpenseTypes, "Investment")
}

func TestSettingsService_NormalizesStoredLists(t *testing.T) {
	f := newFixture(t, testutil.Date(2025, time.March, 15), ReconciliationOptions{})
	ctx := context.Background()
	require.NoError(t, f.settingsRepo.Put(ctx, &domain.Settings{
		Categories:   []string{"Food", " food", "", "Rent "},
		ExpenseTypes: []string{"Necessary"},
	}))

	settings, err := f.settings.GetSettings(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Rent"}, settings.Categories)
}
