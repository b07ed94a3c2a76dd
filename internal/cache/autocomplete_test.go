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

type fakeSuggester struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (f *fakeSuggester) Autocomplete(ctx context.Context, input string) ([]string, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []string{input + " 1", input + " 2"}, nil
}

func TestNewAutocompleteCache_InvalidSize(t *testing.T) {
	_, err := NewAutocompleteCache(&fakeSuggester{}, 0, time.Minute)
	assert.Error(t, err)
}

func TestAutocomplete_CachesHits(t *testing.T) {
	src := &fakeSuggester{}
	c, err := NewAutocompleteCache(src, 8, time.Minute)
	require.NoError(t, err)

	for range 3 {
		got, err := c.Autocomplete(context.Background(), "2 +")
		require.NoError(t, err)
		assert.Equal(t, []string{"2 + 1", "2 + 2"}, got)
	}

	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestAutocomplete_EvictsLeastRecentlyUsed(t *testing.T) {
	src := &fakeSuggester{}
	c, err := NewAutocompleteCache(src, 2, time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	for _, in := range []string{"a", "b", "c", "a"} {
		_, err := c.Autocomplete(ctx, in)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(4), src.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestAutocomplete_Expires(t *testing.T) {
	src := &fakeSuggester{}
	c, err := NewAutocompleteCache(src, 8, 20*time.Millisecond)
	require.NoError(t, err)

	_, err = c.Autocomplete(context.Background(), "pi")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := c.Autocomplete(context.Background(), "pi")
		return err == nil && src.calls.Load() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestAutocomplete_DoesNotCacheErrors(t *testing.T) {
	boom := errors.New("boom")
	src := &fakeSuggester{err: boom}
	c, err := NewAutocompleteCache(src, 8, time.Minute)
	require.NoError(t, err)

	_, err = c.Autocomplete(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	src.err = nil
	got, err := c.Autocomplete(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestAutocomplete_CoalescesConcurrentMisses(t *testing.T) {
	src := &fakeSuggester{release: make(chan struct{})}
	c, err := NewAutocompleteCache(src, 8, time.Minute)
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	results := make(chan []string, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Autocomplete(context.Background(), "sin")
			assert.NoError(t, err)
			results <- got
		}()
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(src.release)
	wg.Wait()
	close(results)

	for got := range results {
		assert.Equal(t, []string{"sin 1", "sin 2"}, got)
	}
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestAutocomplete_CallerCancellation(t *testing.T) {
	src := &fakeSuggester{release: make(chan struct{})}
	c, err := NewAutocompleteCache(src, 8, time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Autocomplete(ctx, "slow")
		done <- err
	}()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The shared fetch keeps running and fills the cache for later callers.
	close(src.release)
	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)

	got, err := c.Autocomplete(context.Background(), "slow")
	require.NoError(t, err)
	assert.Equal(t, []string{"slow 1", "slow 2"}, got)
	assert.Equal(t, int32(1), src.calls.Load())
}
