package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/shopspring/decimal"
)

type accountDoc struct {
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AccountRepository implements domain.AccountRepository on the ledger store
type AccountRepository struct {
	store domain.LedgerStore
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(store domain.LedgerStore) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := accountDocFromDomain(account)
	id, err := appendDoc(ctx, r.store, domain.CollectionAccounts, doc)
	if err != nil {
		return nil, err
	}
	return accountDocToDomain(id, doc), nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	doc, found, err := getDoc[accountDoc](ctx, r.store, kvtree.Join(domain.CollectionAccounts, id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrAccountNotFound
	}
	return accountDocToDomain(id, *doc), nil
}

// GetAll returns accounts in creation order
func (r *AccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	docs, err := getCollection[accountDoc](ctx, r.store, domain.CollectionAccounts)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(docs))
	for id, doc := range docs {
		accounts = append(accounts, accountDocToDomain(id, doc))
	}
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if _, err := r.GetByID(ctx, account.ID); err != nil {
		return nil, err
	}
	doc := accountDocFromDomain(account)
	if err := putDoc(ctx, r.store, kvtree.Join(domain.CollectionAccounts, account.ID), doc); err != nil {
		return nil, err
	}
	return accountDocToDomain(account.ID, doc), nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, kvtree.Join(domain.CollectionAccounts, id))
}

func accountDocFromDomain(a *domain.Account) accountDoc {
	return accountDoc{Name: a.Name, Balance: a.Balance, CreatedAt: a.CreatedAt}
}

func accountDocToDomain(id string, d accountDoc) *domain.Account {
	return &domain.Account{ID: id, Name: d.Name, Balance: d.Balance, CreatedAt: d.CreatedAt}
}
