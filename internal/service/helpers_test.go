package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	ledgerrepo "github.com/dafibh/finanzas/finanzas-backend/internal/repository/ledger"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/memory"
	"github.com/dafibh/finanzas/finanzas-backend/internal/testutil"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// fixture wires every service on an in-memory ledger behind failure and
// counting doubles, with a frozen clock
type fixture struct {
	failing  *testutil.FailingStore
	counting *testutil.CountingStore
	clock    *testutil.Clock
	events   *recordingPublisher

	accountRepo     *ledgerrepo.AccountRepository
	transactionRepo *ledgerrepo.TransactionRepository
	recurringRepo   *ledgerrepo.RecurringRepository
	reportRepo      *ledgerrepo.ReportRepository
	goalsRepo       *ledgerrepo.GoalsRepository
	settingsRepo    *ledgerrepo.SettingsRepository

	ledger         *Ledger
	reconciliation *ReconciliationService
	reports        *ReportService
	dashboard      *DashboardService
	analysis       *AnalysisService
	accounts       *AccountService
	transactions   *TransactionService
	recurring      *RecurringService
	goals          *GoalsService
	settings       *SettingsService
}

func newFixture(t *testing.T, now time.Time, opts ReconciliationOptions) *fixture {
	t.Helper()

	f := &fixture{clock: testutil.NewClock(now), events: &recordingPublisher{}}
	f.failing = testutil.NewFailingStore(memory.NewStore())
	f.counting = testutil.NewCountingStore(f.failing)

	f.accountRepo = ledgerrepo.NewAccountRepository(f.counting)
	f.transactionRepo = ledgerrepo.NewTransactionRepository(f.counting)
	f.recurringRepo = ledgerrepo.NewRecurringRepository(f.counting)
	f.reportRepo = ledgerrepo.NewReportRepository(f.counting)
	f.goalsRepo = ledgerrepo.NewGoalsRepository(f.counting)
	f.settingsRepo = ledgerrepo.NewSettingsRepository(f.counting)

	f.ledger = NewLedger(cache.New(time.Hour).WithClock(f.clock.Now), LedgerRepositories{
		Accounts:     f.accountRepo,
		Transactions: f.transactionRepo,
		Recurring:    f.recurringRepo,
		Reports:      f.reportRepo,
		Goals:        f.goalsRepo,
		Settings:     f.settingsRepo,
	})

	f.reconciliation = NewReconciliationService(f.ledger, opts)
	f.reconciliation.SetClock(f.clock.Now)
	f.reports = NewReportService(f.ledger, f.reportRepo, f.reconciliation)
	f.reports.SetClock(f.clock.Now)
	f.reports.SetEventPublisher(f.events)
	f.dashboard = NewDashboardService(f.ledger, f.reconciliation, f.reports, DefaultTopN)
	f.analysis = NewAnalysisService(f.ledger, f.reconciliation)

	f.accounts = NewAccountService(f.ledger, f.accountRepo)
	f.accounts.SetClock(f.clock.Now)
	f.accounts.SetEventPublisher(f.events)
	f.transactions = NewTransactionService(f.ledger, f.transactionRepo)
	f.transactions.SetClock(f.clock.Now)
	f.transactions.SetEventPublisher(f.events)
	f.recurring = NewRecurringService(f.ledger, f.recurringRepo)
	f.recurring.SetClock(f.clock.Now)
	f.recurring.SetEventPublisher(f.events)
	f.goals = NewGoalsService(f.ledger, f.goalsRepo, f.reconciliation)
	f.goals.SetClock(f.clock.Now)
	f.goals.SetEventPublisher(f.events)
	f.settings = NewSettingsService(f.ledger, f.settingsRepo)
	f.settings.SetEventPublisher(f.events)

	return f
}

// seedAccount writes an account straight to the ledger, bypassing the cache
func (f *fixture) seedAccount(t *testing.T, name string, balance int64) *domain.Account {
	t.Helper()
	a, err := f.accountRepo.Create(context.Background(), &domain.Account{
		Name:      name,
		Balance:   decimal.NewFromInt(balance),
		CreatedAt: f.clock.Now(),
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) seedTransactions(t *testing.T, txns ...*domain.Transaction) {
	t.Helper()
	for _, txn := range txns {
		_, err := f.transactionRepo.Create(context.Background(), txn)
		require.NoError(t, err)
	}
}

func (f *fixture) seedReport(t *testing.T, r *domain.MonthlyReport) {
	t.Helper()
	require.NoError(t, f.reportRepo.Put(context.Background(), r))
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// assertDecimal compares decimals by value
func assertDecimal(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %d, got %s %v", want, got.String(), msgAndArgs)
}
