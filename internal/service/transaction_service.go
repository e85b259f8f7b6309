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

// TransactionService handles ledger entries
type TransactionService struct {
	clock
	ledger          *Ledger
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(ledger *Ledger, transactionRepo domain.TransactionRepository) *TransactionService {
	return &TransactionService{
		clock:           clock{now: time.Now},
		ledger:          ledger,
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(eventType websocket.EventType, payload any) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.NewEvent(eventType, websocket.EntityTypeTransaction, payload))
	}
}

// TransactionInput holds the fields of a new or edited transaction
type TransactionInput struct {
	Date        time.Time
	Concept     string
	Category    string
	ExpenseType string
	Amount      decimal.Decimal
	Kind        string
}

// validate normalizes input into a transaction. Dates later than today are rejected.
func (s *TransactionService) validate(input TransactionInput) (*domain.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}
	concept := strings.TrimSpace(input.Concept)
	if concept == "" {
		return nil, domain.ErrConceptRequired
	}
	if len(concept) > domain.MaxConceptLength {
		return nil, domain.ErrNameTooLong
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	kind, err := domain.ParseTransactionKind(input.Kind)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date := time.Date(input.Date.Year(), input.Date.Month(), input.Date.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return nil, domain.ErrFutureDate
	}

	return &domain.Transaction{
		Date:        date,
		Concept:     concept,
		Category:    category,
		ExpenseType: strings.TrimSpace(input.ExpenseType),
		Amount:      input.Amount,
		Kind:        kind,
	}, nil
}

// CreateTransaction records a new transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	t, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	t.CreatedAt = s.now().UTC()

	created, err := s.transactionRepo.Create(ctx, t)
	if err != nil {
		log.Error().Err(err).Str("concept", t.Concept).Msg("Failed to create transaction")
		return nil, err
	}
	s.ledger.Invalidate(KeyTransactions)
	s.publishEvent(websocket.EventTypeCreated, created)
	return created, nil
}

// GetTransactions returns every transaction ordered by date. On a ledger
// outage the last cached list is returned together with the error.
func (s *TransactionService) GetTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.ledger.Transactions(ctx)
}

// GetTransactionsByPeriod returns the transactions dated within one month
func (s *TransactionService) GetTransactionsByPeriod(ctx context.Context, month, year int) ([]*domain.Transaction, error) {
	period, err := domain.NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	txns, err := s.ledger.Transactions(ctx)
	return FilterByPeriod(txns, period), err
}

// UpdateTransaction replaces every editable field of a transaction
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, input TransactionInput) (*domain.Transaction, error) {
	t, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt

	updated, err := s.transactionRepo.Update(ctx, t)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", id).Msg("Failed to update transaction")
		return nil, err
	}
	s.ledger.Invalidate(KeyTransactions)
	s.publishEvent(websocket.EventTypeUpdated, updated)
	return updated, nil
}

// DeleteTransaction removes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ledger.Invalidate(KeyTransactions)
	s.publishEvent(websocket.EventTypeDeleted, map[string]string{"id": id})
	return nil
}
