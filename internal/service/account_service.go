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

// AccountService handles account-related business logic
type AccountService struct {
	clock
	ledger         *Ledger
	accountRepo    domain.AccountRepository
	eventPublisher websocket.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(ledger *Ledger, accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{
		clock:       clock{now: time.Now},
		ledger:      ledger,
		accountRepo: accountRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *AccountService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AccountService) publishEvent(eventType websocket.EventType, payload any) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(websocket.NewEvent(eventType, websocket.EntityTypeAccount, payload))
	}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name           string
	InitialBalance decimal.Decimal
}

func validateAccountName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// nameTaken reports whether another account already uses name, ignoring case
func (s *AccountService) nameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	accounts, err := s.ledger.Accounts(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range accounts {
		if a.ID != exceptID && strings.EqualFold(a.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// CreateAccount creates a new account
func (s *AccountService) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	name, err := validateAccountName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.InitialBalance.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	taken, err := s.nameTaken(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrAccountNameExists
	}

	created, err := s.accountRepo.Create(ctx, &domain.Account{
		Name:      name,
		Balance:   input.InitialBalance,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to create account")
		return nil, err
	}
	s.ledger.Invalidate(KeyAccounts)
	s.publishEvent(websocket.EventTypeCreated, created)
	return created, nil
}

// GetAccounts returns every account. On a ledger outage the last cached list
// is returned together with the error.
func (s *AccountService) GetAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.ledger.Accounts(ctx)
}

// GetAccountByID retrieves an account by ID
func (s *AccountService) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// UpdateAccountInput holds the editable account fields
type UpdateAccountInput struct {
	Name    string
	Balance decimal.Decimal
}

// UpdateAccount renames an account and sets its balance
func (s *AccountService) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	name, err := validateAccountName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.Balance.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	existing, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.nameTaken(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrAccountNameExists
	}

	existing.Name = name
	existing.Balance = input.Balance
	return s.save(ctx, existing)
}

// DeleteAccount removes an account
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ledger.Invalidate(KeyAccounts)
	s.publishEvent(websocket.EventTypeDeleted, map[string]string{"id": id})
	return nil
}

// Deposit adds a positive amount to an account's balance
func (s *AccountService) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.Balance = account.Balance.Add(amount)
	return s.save(ctx, account)
}

// Withdraw takes a positive amount from an account. The balance may not go below zero.
func (s *AccountService) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrAmountNotPositive
	}
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(amount)
	return s.save(ctx, account)
}

func (s *AccountService) save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	updated, err := s.accountRepo.Update(ctx, account)
	if err != nil {
		log.Error().Err(err).Str("account_id", account.ID).Msg("Failed to update account")
		return nil, err
	}
	s.ledger.Invalidate(KeyAccounts)
	s.publishEvent(websocket.EventTypeUpdated, updated)
	return updated, nil
}
