package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// Ledger serves collection reads through the cache and drops cache entries
// after writes. It is shared by every service.
type Ledger struct {
	cache        *cache.Store
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	recurring    domain.RecurringRepository
	reports      domain.ReportRepository
	goals        domain.GoalsRepository
	settings     domain.SettingsRepository
}

// LedgerRepositories groups the typed repositories a Ledger reads from
type LedgerRepositories struct {
	Accounts     domain.AccountRepository
	Transactions domain.TransactionRepository
	Recurring    domain.RecurringRepository
	Reports      domain.ReportRepository
	Goals        domain.GoalsRepository
	Settings     domain.SettingsRepository
}

// NewLedger creates a new Ledger
func NewLedger(c *cache.Store, repos LedgerRepositories) *Ledger {
	return &Ledger{
		cache:        c,
		accounts:     repos.Accounts,
		transactions: repos.Transactions,
		recurring:    repos.Recurring,
		reports:      repos.Reports,
		goals:        repos.Goals,
		settings:     repos.Settings,
	}
}

// Cache exposes the underlying cache
func (l *Ledger) Cache() *cache.Store {
	return l.cache
}

func (l *Ledger) Accounts(ctx context.Context) ([]*domain.Account, error) {
	return cache.Fetch(ctx, l.cache, KeyAccounts, l.accounts.GetAll)
}

func (l *Ledger) Transactions(ctx context.Context) ([]*domain.Transaction, error) {
	return cache.Fetch(ctx, l.cache, KeyTransactions, l.transactions.GetAll)
}

func (l *Ledger) Recurring(ctx context.Context) ([]*domain.RecurringExpense, error) {
	return cache.Fetch(ctx, l.cache, KeyRecurring, l.recurring.GetAll)
}

// Reports returns every snapshot ordered by period
func (l *Ledger) Reports(ctx context.Context) ([]*domain.MonthlyReport, error) {
	return cache.Fetch(ctx, l.cache, KeyReports, l.reports.GetAll)
}

func (l *Ledger) Goals(ctx context.Context) (*domain.Goals, error) {
	goals, err := cache.Fetch(ctx, l.cache, KeyGoals, l.goals.Get)
	if goals == nil {
		goals = &domain.Goals{}
	}
	return goals, err
}

// cached serves key from the cache or builds it, caching only complete results
func cached[T any](c *cache.Store, key string, build func() (T, bool, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v.(T), nil
	}
	gen := c.Generation(key)
	value, degraded, err := build()
	if err != nil {
		return value, err
	}
	if !degraded {
		c.SetIfCurrent(key, value, gen)
	}
	return value, nil
}

// degradation collects the reads that fell back to stale or empty data
type degradation struct {
	warnings []string
}

// absorb swallows a ledger outage, recording a warning, and returns any other error
func (d *degradation) absorb(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrLedgerUnavailable) {
		log.Warn().Err(err).Str("collection", what).Msg("Serving cached or empty data")
		d.warnings = append(d.warnings, what+" unavailable; showing last known data")
		return nil
	}
	return err
}

func (d *degradation) degraded() bool {
	return len(d.warnings) > 0
}

// clock is embedded by services that depend on the current date
type clock struct {
	now func() time.Time
}

// SetClock replaces the time source
func (c *clock) SetClock(now func() time.Time) {
	c.now = now
}

func (c *clock) currentPeriod() domain.Period {
	return domain.PeriodOf(c.now())
}
