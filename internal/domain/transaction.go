package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the closed set of ledger entry kinds
type TransactionKind string

const (
	TransactionKindExpense TransactionKind = "expense"
	TransactionKindIncome  TransactionKind = "income"
	// TransactionKindPayment is a reimbursement netted against expenses, not income
	TransactionKindPayment TransactionKind = "payment"
)

// legacyKinds maps labels written by the first version of the ledger
var legacyKinds = map[string]TransactionKind{
	"gasto":   TransactionKindExpense,
	"ingreso": TransactionKindIncome,
	"pago":    TransactionKindPayment,
}

// ParseTransactionKind accepts the canonical kinds and the legacy ledger labels
func ParseTransactionKind(s string) (TransactionKind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch TransactionKind(v) {
	case TransactionKindExpense, TransactionKindIncome, TransactionKindPayment:
		return TransactionKind(v), nil
	}
	if k, ok := legacyKinds[v]; ok {
		return k, nil
	}
	return "", ErrInvalidKind
}

type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Concept     string          `json:"concept"`
	Category    string          `json:"category"`
	ExpenseType string          `json:"expenseType"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// IsExpense reports whether the transaction is an expense
func (t *Transaction) IsExpense() bool { return t.Kind == TransactionKindExpense }

// IsIncome reports whether the transaction is income
func (t *Transaction) IsIncome() bool { return t.Kind == TransactionKindIncome }

// IsPayment reports whether the transaction is a reimbursement
func (t *Transaction) IsPayment() bool { return t.Kind == TransactionKindPayment }

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetAll(ctx context.Context) ([]*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Delete(ctx context.Context, id string) error
}
