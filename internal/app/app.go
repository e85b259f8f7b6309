// Package app wires the ledger store, cache and services shared by the API
// server and the CLI.
package app

import (
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/cache"
	"github.com/dafibh/finanzas/finanzas-backend/internal/config"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	ledgerrepo "github.com/dafibh/finanzas/finanzas-backend/internal/repository/ledger"
	"github.com/dafibh/finanzas/finanzas-backend/internal/service"
	"github.com/dafibh/finanzas/finanzas-backend/internal/websocket"
)

// Options configures the engine on top of a ledger store
type Options struct {
	Reconciliation service.ReconciliationOptions
	TopN           int
	// Now replaces the wall clock when set
	Now func() time.Time
}

// OptionsFromConfig derives engine options from configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{TopN: cfg.SummaryTopN}
	if cfg.EpochPeriod != "" {
		epoch, err := domain.ParsePeriod(cfg.EpochPeriod)
		if err != nil {
			return Options{}, err
		}
		opts.Reconciliation.Epoch = epoch
		opts.Reconciliation.OpeningBalance = cfg.OpeningBalance
	}
	return opts, nil
}

// Services holds every engine service built over one ledger
type Services struct {
	Ledger         *service.Ledger
	Reconciliation *service.ReconciliationService
	Reports        *service.ReportService
	Dashboard      *service.DashboardService
	Analysis       *service.AnalysisService
	Accounts       *service.AccountService
	Transactions   *service.TransactionService
	Recurring      *service.RecurringService
	Goals          *service.GoalsService
	Settings       *service.SettingsService
}

// NewServices builds the typed repositories and services over store
func NewServices(store domain.LedgerStore, c *cache.Store, opts Options) *Services {
	reportRepo := ledgerrepo.NewReportRepository(store)
	goalsRepo := ledgerrepo.NewGoalsRepository(store)
	repos := service.LedgerRepositories{
		Accounts:     ledgerrepo.NewAccountRepository(store),
		Transactions: ledgerrepo.NewTransactionRepository(store),
		Recurring:    ledgerrepo.NewRecurringRepository(store),
		Reports:      reportRepo,
		Goals:        goalsRepo,
		Settings:     ledgerrepo.NewSettingsRepository(store),
	}

	s := &Services{Ledger: service.NewLedger(c, repos)}
	s.Reconciliation = service.NewReconciliationService(s.Ledger, opts.Reconciliation)
	s.Reports = service.NewReportService(s.Ledger, reportRepo, s.Reconciliation)
	s.Dashboard = service.NewDashboardService(s.Ledger, s.Reconciliation, s.Reports, opts.TopN)
	s.Analysis = service.NewAnalysisService(s.Ledger, s.Reconciliation)
	s.Accounts = service.NewAccountService(s.Ledger, repos.Accounts)
	s.Transactions = service.NewTransactionService(s.Ledger, repos.Transactions)
	s.Recurring = service.NewRecurringService(s.Ledger, repos.Recurring)
	s.Goals = service.NewGoalsService(s.Ledger, goalsRepo, s.Reconciliation)
	s.Settings = service.NewSettingsService(s.Ledger, repos.Settings)

	if opts.Now != nil {
		s.Reconciliation.SetClock(opts.Now)
		s.Reports.SetClock(opts.Now)
		s.Accounts.SetClock(opts.Now)
		s.Transactions.SetClock(opts.Now)
		s.Recurring.SetClock(opts.Now)
		s.Goals.SetClock(opts.Now)
	}
	return s
}

// SetEventPublisher routes change events from every writing service to publisher
func (s *Services) SetEventPublisher(publisher websocket.EventPublisher) {
	s.Reports.SetEventPublisher(publisher)
	s.Accounts.SetEventPublisher(publisher)
	s.Transactions.SetEventPublisher(publisher)
	s.Recurring.SetEventPublisher(publisher)
	s.Goals.SetEventPublisher(publisher)
	s.Settings.SetEventPublisher(publisher)
}
