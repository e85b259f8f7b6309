package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func TestFetch_LoadsOnceWhileFresh(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), s, "accounts", load)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)
}

func TestFetch_ReloadsAfterInvalidate(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	value := 1
	load := func(context.Context) (int, error) { return value, nil }

	v, err := Fetch(context.Background(), s, "accounts", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	value = 2
	s.Invalidate("accounts")

	v, err = Fetch(context.Background(), s, "accounts", load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestFetch_ServesStaleOnFailure(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	_, err := Fetch(context.Background(), s, "accounts", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	v, err := Fetch(context.Background(), s, "accounts", func(context.Context) (int, error) { return 0, errBackend })

	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, 7, v)
}

func TestFetch_ZeroValueOnFailureWithoutHistory(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	v, err := Fetch(context.Background(), s, "accounts", func(context.Context) ([]string, error) { return nil, errBackend })

	assert.ErrorIs(t, err, errBackend)
	assert.Nil(t, v)
}

func TestFetch_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	v, err := Fetch(context.Background(), s, "accounts", func(context.Context) (int, error) {
		// a write lands while this read is in flight
		s.Invalidate("accounts")
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, ok := s.Get("accounts")
	assert.False(t, ok, "result of a superseded load must not be cached")
}

func TestFetch_CollapsesConcurrentLoads(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	load := func(context.Context) (int, error) {
		calls.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return 5, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 4)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = Fetch(context.Background(), s, "transactions", load)
	}()
	<-started
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), s, "transactions", load)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []int{5, 5, 5, 5}, results)
	assert.LessOrEqual(t, calls.Load(), int32(len(results)))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}
