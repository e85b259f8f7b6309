// Package cache holds the read-through TTL cache sitting in front of the ledger store.
package cache

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is the port services use to drop cached entries after a write
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Invalidate(names ...string)
}

var _ Cache = (*Store)(nil)

type entry struct {
	value    any
	storedAt time.Time
}

// Store is a goroutine-safe TTL cache. Keys are either a bare name ("accounts")
// or a name with a qualifier ("summary:2025-03"); invalidating a name drops
// every key sharing it.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	// generations is bumped per name on every invalidation so that a load
	// started before the invalidation cannot repopulate the entry
	generations map[string]uint64
	now         func() time.Time
	group       singleflight.Group
}

// New creates a Store. A ttl <= 0 keeps entries until they are invalidated.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:         ttl,
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

// WithClock replaces the clock used for expiry, for tests
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// TTL returns the configured time-to-live
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns a fresh value for key
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || s.expired(e) {
		return nil, false
	}
	return e.value, true
}

// Stale returns the last stored value for key even if it has expired
func (s *Store) Stale(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, storedAt: s.now()}
}

// Invalidate drops every key whose name is in names
func (s *Store) Invalidate(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		s.generations[name]++
		for key := range s.entries {
			if nameOf(key) == name {
				delete(s.entries, key)
			}
		}
	}
}

// Clear drops everything
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		s.generations[nameOf(key)]++
	}
	s.entries = make(map[string]entry)
}

// Len returns the number of stored entries, expired ones included
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Generation returns the invalidation counter for key's name. Pass it to
// SetIfCurrent to store a value computed after reading it.
func (s *Store) Generation(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[nameOf(key)]
}

// SetIfCurrent stores value only if key's name has not been invalidated since gen
func (s *Store) SetIfCurrent(key string, value any, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[nameOf(key)] != gen {
		return
	}
	s.entries[key] = entry{value: value, storedAt: s.now()}
}

func (s *Store) expired(e entry) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(e.storedAt) >= s.ttl
}

func nameOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

// Key joins a name and a qualifier
func Key(name, qualifier string) string {
	if qualifier == "" {
		return name
	}
	return name + ":" + qualifier
}
