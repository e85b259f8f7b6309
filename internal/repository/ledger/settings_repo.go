package ledger

import (
	"context"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
)

// GoalsRepository stores savings goals as one document
type GoalsRepository struct {
	store domain.LedgerStore
}

// NewGoalsRepository creates a new GoalsRepository
func NewGoalsRepository(store domain.LedgerStore) *GoalsRepository {
	return &GoalsRepository{store: store}
}

// Get returns zero targets when none have been set
func (r *GoalsRepository) Get(ctx context.Context) (*domain.Goals, error) {
	goals, found, err := getDoc[domain.Goals](ctx, r.store, domain.CollectionGoals)
	if err != nil {
		return nil, err
	}
	if !found {
		return &domain.Goals{}, nil
	}
	return goals, nil
}

func (r *GoalsRepository) Put(ctx context.Context, goals *domain.Goals) error {
	return putDoc(ctx, r.store, domain.CollectionGoals, goals)
}

// SettingsRepository stores the category and expense-type lists
type SettingsRepository struct {
	store domain.LedgerStore
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(store domain.LedgerStore) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns domain.ErrNotFound when settings were never written
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	settings, found, err := getDoc[domain.Settings](ctx, r.store, domain.CollectionSettings)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return settings, nil
}

func (r *SettingsRepository) Put(ctx context.Context, settings *domain.Settings) error {
	return putDoc(ctx, r.store, domain.CollectionSettings, settings)
}
