package cache

import (
	"context"
	"fmt"
	"strconv"
)

// Fetch returns the cached value for key or loads it. Concurrent misses for
// the same key share a single load.
//
// When load fails, Fetch returns the last stored value for key (or the zero
// value if there is none) together with the load error, so callers can decide
// whether to serve the stale value.
func Fetch[T any](ctx context.Context, s *Store, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := s.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	gen := s.Generation(key)
	v, err, _ := s.group.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.SetIfCurrent(key, loaded, gen)
		return loaded, nil
	})
	if err != nil {
		var fallback T
		if stale, ok := s.Stale(key); ok {
			if typed, ok := stale.(T); ok {
				fallback = typed
			}
		}
		return fallback, fmt.Errorf("load %s: %w", key, err)
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache %s holds %T", key, v)
	}
	return typed, nil
}
