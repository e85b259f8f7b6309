// Package memory is an in-process ledger store used for local runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/dafibh/finanzas/finanzas-backend/internal/repository/kvtree"
)

// Store keeps every document in a map keyed by its full path
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

// Get returns the document or assembled collection at path
func (s *Store) Get(ctx context.Context, path string) ([]byte, bool, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []kvtree.Entry
	for p, v := range s.docs {
		if kvtree.IsWithin(p, path) {
			entries = append(entries, kvtree.Entry{Path: p, Value: v})
		}
	}
	return kvtree.Assemble(path, entries)
}

// Set replaces path and everything beneath it
func (s *Store) Set(ctx context.Context, path string, value []byte) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteLocked(path)
	s.docs[path] = append([]byte(nil), value...)
	return nil
}

// Append stores value under a new child key of path
func (s *Store) Append(ctx context.Context, path string, value []byte) (string, error) {
	path, err := kvtree.Clean(path)
	if err != nil {
		return "", err
	}

	key := kvtree.NewKey()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[kvtree.Join(path, key)] = append([]byte(nil), value...)
	return key, nil
}

// Delete removes path and everything beneath it
func (s *Store) Delete(ctx context.Context, path string) error {
	path, err := kvtree.Clean(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(path)
	return nil
}

func (s *Store) deleteLocked(path string) {
	for p := range s.docs {
		if kvtree.IsWithin(p, path) {
			delete(s.docs, p)
		}
	}
}
