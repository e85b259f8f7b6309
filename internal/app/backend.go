package app

import (
	"context"
	"fmt"

	"github.com/dafibh/finanzas/finanzas-backend/internal/config"
	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/firebase"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/memory"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/postgres"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/sqlite"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// OpenStore connects the configured ledger backend and scopes it to the
// configured namespace. The returned func releases the backend.
func OpenStore(ctx context.Context, cfg *config.Config) (domain.LedgerStore, func(), error) {
	store, closeFn, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info().
		Str("backend", cfg.LedgerBackend).
		Str("namespace", cfg.LedgerNamespace).
		Msg("Ledger store ready")
	return kvtree.WithNamespace(store, cfg.LedgerNamespace), closeFn, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (domain.LedgerStore, func(), error) {
	noop := func() {}

	switch cfg.LedgerBackend {
	case config.BackendMemory:
		log.Warn().Msg("Using the in-memory ledger; data is lost on exit")
		return memory.NewStore(), noop, nil

	case config.BackendFirebase:
		return firebase.NewStore(cfg.Firebase, nil), noop, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := postgres.NewLedgerStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close sqlite ledger")
			}
		}, nil

	case config.BackendS3:
		client, err := storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewS3LedgerStore(client, cfg.S3.Bucket, cfg.S3.Prefix), noop, nil
	}

	return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
}
