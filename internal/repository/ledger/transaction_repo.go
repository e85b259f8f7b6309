package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/dafibh/finanzas/finanzas-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type transactionDoc struct {
	Date        string          `json:"date"`
	Concept     string          `json:"concept"`
	Category    string          `json:"category"`
	ExpenseType string          `json:"expenseType,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TransactionRepository implements domain.TransactionRepository on the ledger store
type TransactionRepository struct {
	store domain.LedgerStore
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(store domain.LedgerStore) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	doc := transactionDocFromDomain(t)
	id, err := appendDoc(ctx, r.store, domain.CollectionTransactions, doc)
	if err != nil {
		return nil, err
	}
	created := *t
	created.ID = id
	return &created, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	doc, found, err := getDoc[transactionDoc](ctx, r.store, kvtree.Join(domain.CollectionTransactions, id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrTransactionNotFound
	}
	return transactionDocToDomain(id, *doc)
}

// GetAll returns every valid transaction ordered by date, then creation time
func (r *TransactionRepository) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	docs, err := getCollection[transactionDoc](ctx, r.store, domain.CollectionTransactions)
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.Transaction, 0, len(docs))
	for id, doc := range docs {
		t, err := transactionDocToDomain(id, doc)
		if err != nil {
			log.Warn().Err(err).Str("transaction_id", id).Msg("Skipping invalid transaction")
			continue
		}
		txns = append(txns, t)
	}
	sort.Slice(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return txns, nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if _, err := r.GetByID(ctx, t.ID); err != nil {
		return nil, err
	}
	if err := putDoc(ctx, r.store, kvtree.Join(domain.CollectionTransactions, t.ID), transactionDocFromDomain(t)); err != nil {
		return nil, err
	}
	updated := *t
	return &updated, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, kvtree.Join(domain.CollectionTransactions, id))
}

func transactionDocFromDomain(t *domain.Transaction) transactionDoc {
	return transactionDoc{
		Date:        t.Date.Format(dateLayout),
		Concept:     t.Concept,
		Category:    t.Category,
		ExpenseType: t.ExpenseType,
		Amount:      t.Amount,
		Kind:        string(t.Kind),
		CreatedAt:   t.CreatedAt,
	}
}

func transactionDocToDomain(id string, d transactionDoc) (*domain.Transaction, error) {
	kind, err := domain.ParseTransactionKind(d.Kind)
	if err != nil {
		return nil, fmt.Errorf("kind %q: %w", d.Kind, err)
	}
	date, err := util.ParseDate(d.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", d.Date, err)
	}
	return &domain.Transaction{
		ID:          id,
		Date:        date,
		Concept:     d.Concept,
		Category:    d.Category,
		ExpenseType: d.ExpenseType,
		Amount:      d.Amount.Abs(),
		Kind:        kind,
		CreatedAt:   d.CreatedAt,
	}, nil
}
