package testutil

import (
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Expense builds an expense transaction
func Expense(date time.Time, category string, amount int64) *domain.Transaction {
	return &domain.Transaction{
		Date:        date,
		Concept:     category + " purchase",
		Category:    category,
		ExpenseType: "Necessary",
		Amount:      decimal.NewFromInt(amount),
		Kind:        domain.TransactionKindExpense,
		CreatedAt:   date,
	}
}

// Income builds an income transaction
func Income(date time.Time, amount int64) *domain.Transaction {
	return &domain.Transaction{
		Date:      date,
		Concept:   "Salary",
		Category:  "Work",
		Amount:    decimal.NewFromInt(amount),
		Kind:      domain.TransactionKindIncome,
		CreatedAt: date,
	}
}

// Payment builds a reimbursement transaction
func Payment(date time.Time, category string, amount int64) *domain.Transaction {
	return &domain.Transaction{
		Date:      date,
		Concept:   "Refund",
		Category:  category,
		Amount:    decimal.NewFromInt(amount),
		Kind:      domain.TransactionKindPayment,
		CreatedAt: date,
	}
}

// Report builds a snapshot for period
func Report(year, month int, realSavings, endBalance int64) *domain.MonthlyReport {
	return &domain.MonthlyReport{
		Year:              year,
		Month:             month,
		RealSavings:       decimal.NewFromInt(realSavings),
		EndOfMonthBalance: decimal.NewFromInt(endBalance),
		GeneratedAt:       time.Date(year, time.Month(month), 28, 0, 0, 0, 0, time.UTC),
	}
}
