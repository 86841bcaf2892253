package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Stop()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 42)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 42, got)
}

func TestCache_ExpiredEntryIsAbsent(t *testing.T) {
	c := New[string, string](time.Minute, time.Minute)
	defer c.Stop()

	c.SetWithTTL("k", "v", -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_LastWriteWins(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Stop()

	c.Set("k", 1)
	c.Set("k", 2)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCache_GetOrCompute(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Stop()

	calls := 0
	compute := func() (int, error) {
		calls++
		return 7, nil
	}

	got, err := c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 1, calls)

	// Fresh entry short-circuits the compute.
	got, err = c.GetOrCompute("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrCompute_ErrorNotCached(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Stop()

	wantErr := errors.New("boom")
	_, err := c.GetOrCompute("k", time.Minute, func() (int, error) {
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// The failed compute left nothing behind.
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int](time.Minute, time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set(n%10, n)
			c.Get(n % 10)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, c.Len())
}

func TestCache_JanitorSweepsExpired(t *testing.T) {
	c := New[string, int](time.Minute, 10*time.Millisecond)
	defer c.Stop()

	c.SetWithTTL("gone", 1, time.Millisecond)
	c.Set("kept", 2)

	assert.Eventually(t, func() bool {
		return c.Len() == 1
	}, time.Second, 10*time.Millisecond)

	_, ok := c.Get("kept")
	assert.True(t, ok)
}

func TestCache_Stats(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCache_StopIsIdempotent(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	c.Stop()
	c.Stop()
}

func TestCache_Purge(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	assert.Equal(t, 0, c.Len())
}
