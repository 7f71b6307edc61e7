package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, err := c.Get(ctx, "streak:missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "streak:h1", []byte(`{"current_streak":3}`), 0))
	v, err := c.Get(ctx, "streak:h1")
	require.NoError(t, err)
	assert.Equal(t, `{"current_streak":3}`, string(v))

	require.NoError(t, c.Delete(ctx, "streak:h1"))
	_, err = c.Get(ctx, "streak:h1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Deleting an absent key is not an error.
	assert.NoError(t, c.Delete(ctx, "streak:h1"))
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "streak:h1", []byte("v"), 20*time.Millisecond))
	_, err := c.Get(ctx, "streak:h1")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	_, err = c.Get(ctx, "streak:h1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Set(ctx, "streak:shared", []byte("v"), time.Minute)
				_, _ = c.Get(ctx, "streak:shared")
				_ = c.Delete(ctx, "streak:shared")
			}
		}()
	}
	wg.Wait()
}

func TestStreakKey(t *testing.T) {
	assert.Equal(t, "streak:abc-123", StreakKey("abc-123"))
}
