package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// LedgerStore implements domain.LedgerStore on a single path-keyed JSONB table
type LedgerStore struct {
	pool *pgxpool.Pool
}

// NewLedgerStore creates a LedgerStore
func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

// EnsureSchema creates the documents table if needed
func (s *LedgerStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// Get returns the document at path, assembling children for collection paths
func (s *LedgerStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT path, value::text FROM ledger_documents WHERE path = $1 OR left(path, length($2)) = $2`,
		path, path+"/")
	if err != nil {
		return nil, false, unavailable("get", path, err)
	}
	defer rows.Close()

	var entries []kvtree.Entry
	for rows.Next() {
		var p, v string
		if err := rows.Scan(&p, &v); err != nil {
			return nil, false, unavailable("scan", path, err)
		}
		entries = append(entries, kvtree.Entry{Path: p, Value: []byte(v)})
	}
	if err := rows.Err(); err != nil {
		return nil, false, unavailable("get", path, err)
	}
	return kvtree.Assemble(path, entries)
}

// Set replaces path and its subtree in one transaction
func (s *LedgerStore) Set(ctx context.Context, path string, value []byte) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := deleteTree(ctx, tx, path); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO ledger_documents (path, value, updated_at) VALUES ($1, $2::jsonb, now())`,
			path, string(value))
		return err
	})
	if err != nil {
		return unavailable("set", path, err)
	}
	return nil
}

// Append inserts value under a new child key of path
func (s *LedgerStore) Append(ctx context.Context, path string, value []byte) (string, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return "", err
	}

	key := kvtree.NewKey()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO ledger_documents (path, value, updated_at) VALUES ($1, $2::jsonb, now())`,
		kvtree.Join(path, key), string(value))
	if err != nil {
		return "", unavailable("append", path, err)
	}
	return key, nil
}

// Delete removes path and its subtree
func (s *LedgerStore) Delete(ctx context.Context, path string) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}
	if err := deleteTree(ctx, s.pool, path); err != nil {
		return unavailable("delete", path, err)
	}
	return nil
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func deleteTree(ctx context.Context, db execer, path string) error {
	_, err := db.Exec(ctx,
		`DELETE FROM ledger_documents WHERE path = $1 OR left(path, length($2)) = $2`,
		path, path+"/")
	return err
}

func unavailable(op, path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
	return fmt.Errorf("%w: %s %s: %v", domain.ErrLedgerUnavailable, op, path, err)
}
