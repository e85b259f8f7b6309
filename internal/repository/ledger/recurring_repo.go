package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type recurringDoc struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Periodicity string          `json:"periodicity"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// RecurringRepository implements domain.RecurringRepository on the ledger store.
// The monthly equivalent is derived on read and never stored.
type RecurringRepository struct {
	store domain.LedgerStore
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(store domain.LedgerStore) *RecurringRepository {
	return &RecurringRepository{store: store}
}

func (r *RecurringRepository) Create(ctx context.Context, item *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	doc := recurringDocFromDomain(item)
	id, err := appendDoc(ctx, r.store, domain.CollectionRecurring, doc)
	if err != nil {
		return nil, err
	}
	return recurringDocToDomain(id, doc)
}

func (r *RecurringRepository) GetByID(ctx context.Context, id string) (*domain.RecurringExpense, error) {
	doc, found, err := getDoc[recurringDoc](ctx, r.store, kvtree.Join(domain.CollectionRecurring, id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrRecurringNotFound
	}
	return recurringDocToDomain(id, *doc)
}

// GetAll returns recurring expenses ordered by description
func (r *RecurringRepository) GetAll(ctx context.Context) ([]*domain.RecurringExpense, error) {
	docs, err := getCollection[recurringDoc](ctx, r.store, domain.CollectionRecurring)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.RecurringExpense, 0, len(docs))
	for id, doc := range docs {
		item, err := recurringDocToDomain(id, doc)
		if err != nil {
			log.Warn().Err(err).Str("recurring_id", id).Msg("Skipping invalid recurring expense")
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Description), strings.ToLower(items[j].Description)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *RecurringRepository) Update(ctx context.Context, item *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	if _, err := r.GetByID(ctx, item.ID); err != nil {
		return nil, err
	}
	doc := recurringDocFromDomain(item)
	if err := putDoc(ctx, r.store, kvtree.Join(domain.CollectionRecurring, item.ID), doc); err != nil {
		return nil, err
	}
	return recurringDocToDomain(item.ID, doc)
}

func (r *RecurringRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, kvtree.Join(domain.CollectionRecurring, id))
}

func recurringDocFromDomain(item *domain.RecurringExpense) recurringDoc {
	return recurringDoc{
		Description: item.Description,
		Category:    item.Category,
		Amount:      item.Amount,
		Periodicity: string(item.Periodicity),
		CreatedAt:   item.CreatedAt,
	}
}

func recurringDocToDomain(id string, d recurringDoc) (*domain.RecurringExpense, error) {
	p, err := domain.ParsePeriodicity(d.Periodicity)
	if err != nil {
		return nil, err
	}
	monthly, err := domain.MonthlyEquivalent(d.Amount, p)
	if err != nil {
		return nil, err
	}
	return &domain.RecurringExpense{
		ID:                id,
		Description:       d.Description,
		Category:          d.Category,
		Amount:            d.Amount,
		Periodicity:       p,
		MonthlyEquivalent: monthly,
		CreatedAt:         d.CreatedAt,
	}, nil
}
