package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dafibh/finanzas/finanzas-backend/internal/domain"
)

// FailingStore wraps a ledger store and fails reads and/or writes on demand
type FailingStore struct {
	domain.LedgerStore
	FailReads  atomic.Bool
	FailWrites atomic.Bool
}

// NewFailingStore wraps inner
func NewFailingStore(inner domain.LedgerStore) *FailingStore {
	return &FailingStore{LedgerStore: inner}
}

// FailAll toggles both reads and writes
func (f *FailingStore) FailAll(fail bool) {
	f.FailReads.Store(fail)
	f.FailWrites.Store(fail)
}

func (f *FailingStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	if f.FailReads.Load() {
		return nil, false, fmt.Errorf("%w: get %s: simulated outage", domain.ErrLedgerUnavailable, path)
	}
	return f.LedgerStore.Get(ctx, path)
}

func (f *FailingStore) Set(ctx context.Context, path string, value []byte) error {
	if f.FailWrites.Load() {
		return fmt.Errorf("%w: set %s: simulated outage", domain.ErrLedgerUnavailable, path)
	}
	return f.LedgerStore.Set(ctx, path, value)
}

func (f *FailingStore) Append(ctx context.Context, path string, value []byte) (string, error) {
	if f.FailWrites.Load() {
		return "", fmt.Errorf("%w: append %s: simulated outage", domain.ErrLedgerUnavailable, path)
	}
	return f.LedgerStore.Append(ctx, path, value)
}

func (f *FailingStore) Delete(ctx context.Context, path string) error {
	if f.FailWrites.Load() {
		return fmt.Errorf("%w: delete %s: simulated outage", domain.ErrLedgerUnavailable, path)
	}
	return f.LedgerStore.Delete(ctx, path)
}

// CountingStore counts reads per top-level collection
type CountingStore struct {
	domain.LedgerStore
	mu    sync.Mutex
	reads map[string]int
}

// NewCountingStore wraps inner
func NewCountingStore(inner domain.LedgerStore) *CountingStore {
	return &CountingStore{LedgerStore: inner, reads: make(map[string]int)}
}

func (c *CountingStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	c.mu.Lock()
	c.reads[strings.SplitN(strings.Trim(path, "/"), "/", 2)[0]]++
	c.mu.Unlock()
	return c.LedgerStore.Get(ctx, path)
}

// Reads returns how many times collection was read
func (c *CountingStore) Reads(collection string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[collection]
}

// Reset clears the counters
func (c *CountingStore) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = make(map[string]int)
}
