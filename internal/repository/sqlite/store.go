// Package sqlite is a single-file ledger store for offline use.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"

	_ "modernc.org/sqlite"
)

// Store implements domain.LedgerStore on a path-keyed SQLite table
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and migrates it
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the document at path, assembling children for collection paths
func (s *Store) Get(ctx context.Context, path string) ([]byte, bool, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, value FROM ledger_documents WHERE path = ? OR substr(path, 1, length(?)) = ?`,
		path, path+"/", path+"/")
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
func (s *Store) Set(ctx context.Context, path string, value []byte) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("set", path, err)
	}
	defer tx.Rollback()

	if err := deleteTree(ctx, tx, path); err != nil {
		return unavailable("set", path, err)
	}
	if err := insert(ctx, tx, path, value); err != nil {
		return unavailable("set", path, err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("set", path, err)
	}
	return nil
}

// Append inserts value under a new child key of path
func (s *Store) Append(ctx context.Context, path string, value []byte) (string, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return "", err
	}
	key := kvtree.NewKey()
	if err := insert(ctx, s.db, kvtree.Join(path, key), value); err != nil {
		return "", unavailable("append", path, err)
	}
	return key, nil
}

// Delete removes path and its subtree
func (s *Store) Delete(ctx context.Context, path string) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}
	if err := deleteTree(ctx, s.db, path); err != nil {
		return unavailable("delete", path, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, path string, value []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO ledger_documents (path, value, updated_at) VALUES (?, ?, ?)`,
		path, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func deleteTree(ctx context.Context, db execer, path string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM ledger_documents WHERE path = ? OR substr(path, 1, length(?)) = ?`,
		path, path+"/", path+"/")
	return err
}

func unavailable(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", domain.ErrLedgerUnavailable, op, path, err)
}
