// Package cache provides caching utilities for Wolfram|Alpha lookups.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// DefaultFetchTimeout bounds a shared upstream fetch once its callers are gone.
const DefaultFetchTimeout = 10 * time.Second

// Suggester fetches autocomplete suggestions for an input prefix.
type Suggester interface {
	Autocomplete(ctx context.Context, input string) ([]string, error)
}

// AutocompleteCache provides thread-safe expiring LRU caching of
// autocomplete suggestions keyed by input prefix.
//
// Concurrent misses for the same prefix share one upstream call. Errors are
// returned to every waiting caller and never cached.
type AutocompleteCache struct {
	source       Suggester
	cache        *expirable.LRU[string, []string]
	group        singleflight.Group
	fetchTimeout time.Duration
}

// NewAutocompleteCache creates a cache holding at most maxItems prefixes for ttl.
func NewAutocompleteCache(source Suggester, maxItems int, ttl time.Duration) (*AutocompleteCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxItems)
	}
	return &AutocompleteCache{
		source:       source,
		cache:        expirable.NewLRU[string, []string](maxItems, nil, ttl),
		fetchTimeout: DefaultFetchTimeout,
	}, nil
}

// Autocomplete returns cached suggestions for input, fetching them on a miss.
// The returned slice must not be modified.
func (c *AutocompleteCache) Autocomplete(ctx context.Context, input string) ([]string, error) {
	if v, ok := c.cache.Get(input); ok {
		return v, nil
	}

	// The shared fetch outlives a single caller's cancellation so the
	// remaining waiters still get a result.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(input, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(fetchCtx, c.fetchTimeout)
		defer cancel()

		start := time.Now()
		suggestions, err := c.source.Autocomplete(fetchCtx, input)
		if err != nil {
			return nil, err
		}
		c.cache.Add(input, suggestions)
		slog.Debug("autocomplete cache fill",
			slog.String("input", input),
			slog.Int("suggestions", len(suggestions)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return suggestions, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]string), nil
	}
}

// Len returns the current number of cached prefixes.
func (c *AutocompleteCache) Len() int {
	return c.cache.Len()
}
