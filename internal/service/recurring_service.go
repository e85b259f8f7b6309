package service

import (
	"context"
	"strings"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RecurringService manages the fixed expenses that make up the monthly budget
type RecurringService struct {
	clock
	ledger         *Ledger
	recurringRepo  domain.RecurringRepository
	eventPublisher websocket.EventPublisher
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(ledger *Ledger, recurringRepo domain.RecurringRepository) *RecurringService {
	return &RecurringService{
		clock:         clock{now: time.Now},
		ledger:        ledger,
		recurringRepo: recurringRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *RecurringService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *RecurringService) publishEvent(eventType websocket.EventType, payload any) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.NewEvent(eventType, websocket.EntityTypeRecurring, payload))
	}
}

// RecurringInput holds the fields of a recurring expense
type RecurringInput struct {
	Description string
	Category    string
	Amount      decimal.Decimal
	Periodicity string
}

func validateRecurring(input RecurringInput) (*domain.RecurringExpense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrNameRequired
	}
	if len(description) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}
	periodicity, err := domain.ParsePeriodicity(input.Periodicity)
	if err != nil {
		return nil, err
	}
	monthly, err := domain.MonthlyEquivalent(input.Amount, periodicity)
	if err != nil {
		return nil, err
	}
	return &domain.RecurringExpense{
		Description:       description,
		Category:          category,
		Amount:            input.Amount,
		Periodicity:       periodicity,
		MonthlyEquivalent: monthly,
	}, nil
}

func (s *RecurringService) descriptionTaken(ctx context.Context, description, exceptID string) (bool, error) {
	items, err := s.ledger.Recurring(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range items {
		if r.ID != exceptID && strings.EqualFold(r.Description, description) {
			return true, nil
		}
	}
	return false, nil
}

// CreateRecurring adds a recurring expense
func (s *RecurringService) CreateRecurring(ctx context.Context, input RecurringInput) (*domain.RecurringExpense, error) {
	item, err := validateRecurring(input)
	if err != nil {
		return nil, err
	}
	taken, err := s.descriptionTaken(ctx, item.Description, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrRecurringExists
	}
	item.CreatedAt = s.now().UTC()

	created, err := s.recurringRepo.Create(ctx, item)
	if err != nil {
		log.Error().Err(err).Str("description", item.Description).Msg("Failed to create recurring expense")
		return nil, err
	}
	s.ledger.Invalidate(KeyRecurring)
	s.publishEvent(websocket.EventTypeCreated, created)
	return created, nil
}

// GetRecurring returns every recurring expense
func (s *RecurringService) GetRecurring(ctx context.Context) ([]*domain.RecurringExpense, error) {
	return s.ledger.Recurring(ctx)
}

// GetMonthlyTotal is the sum of all monthly equivalents
func (s *RecurringService) GetMonthlyTotal(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.ledger.Recurring(ctx)
	return domain.MonthlyBudget(items), err
}

// UpdateRecurring replaces a recurring expense
func (s *RecurringService) UpdateRecurring(ctx context.Context, id string, input RecurringInput) (*domain.RecurringExpense, error) {
	item, err := validateRecurring(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.descriptionTaken(ctx, item.Description, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrRecurringExists
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt

	updated, err := s.recurringRepo.Update(ctx, item)
	if err != nil {
		log.Error().Err(err).Str("recurring_id", id).Msg("Failed to update recurring expense")
		return nil, err
	}
	s.ledger.Invalidate(KeyRecurring)
	s.publishEvent(websocket.EventTypeUpdated, updated)
	return updated, nil
}

// DeleteRecurring removes a recurring expense
func (s *RecurringService) DeleteRecurring(ctx context.Context, id string) error {
	if err := s.recurringRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ledger.Invalidate(KeyRecurring)
	s.publishEvent(websocket.EventTypeDeleted, map[string]string{"id": id})
	return nil
}
