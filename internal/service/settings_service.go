package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SettingsService manages the category and expense-type lists
type SettingsService struct {
	ledger         *Ledger
	settingsRepo   domain.SettingsRepository
	eventPublisher websocket.EventPublisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(ledger *Ledger, settingsRepo domain.SettingsRepository) *SettingsService {
	return &SettingsService{ledger: ledger, settingsRepo: settingsRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// GetSettings returns the stored lists, seeding the defaults on first use
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := cache.Fetch(ctx, s.ledger.Cache(), KeySettings, s.load)
	if settings == nil {
		settings = domain.DefaultSettings()
	}
	return settings, err
}

func (s *SettingsService) load(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err == nil {
		settings.Categories = domain.NormalizeNames(settings.Categories)
		settings.ExpenseTypes = domain.NormalizeNames(settings.ExpenseTypes)
		return settings, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	defaults := domain.DefaultSettings()
	if err := s.settingsRepo.Put(ctx, defaults); err != nil {
		// the defaults are still usable, seeding is retried on the next read
		log.Warn().Err(err).Msg("Failed to seed default settings")
	}
	return defaults, nil
}

// AddCategory appends a category. Names are compared ignoring case.
func (s *SettingsService) AddCategory(ctx context.Context, name string) (*domain.Settings, error) {
	return s.add(ctx, name, domain.ErrCategoryExists, func(st *domain.Settings) *[]string { return &st.Categories })
}

// AddExpenseType appends an expense type
func (s *SettingsService) AddExpenseType(ctx context.Context, name string) (*domain.Settings, error) {
	return s.add(ctx, name, domain.ErrExpenseTypeExists, func(st *domain.Settings) *[]string { return &st.ExpenseTypes })
}

func (s *SettingsService) add(ctx context.Context, name string, exists error, list func(*domain.Settings) *[]string) (*domain.Settings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	updated := &domain.Settings{
		Categories:   append([]string(nil), current.Categories...),
		ExpenseTypes: append([]string(nil), current.ExpenseTypes...),
	}
	names := list(updated)
	if domain.ContainsName(*names, name) {
		return nil, exists
	}
	*names = append(*names, name)

	if err := s.settingsRepo.Put(ctx, updated); err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to update settings")
		return nil, err
	}
	s.ledger.Invalidate(KeySettings)
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeSettings, updated))
	}
	return updated, nil
}
