package memory

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/scout/pkg/domain"
	"github.com/aretw0/scout/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Contract(t *testing.T) {
	ports.RunCacheContract(t, NewCache())
}

func TestCache_Expiration(t *testing.T) {
	cache := NewCache()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "company:acme", []byte("{}"), time.Minute))

	clock = clock.Add(59 * time.Second)
	_, err := cache.Get(ctx, "company:acme")
	assert.NoError(t, err)

	clock = clock.Add(time.Second)
	_, err = cache.Get(ctx, "company:acme")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCache_ExpiredReadKeepsConcurrentSet(t *testing.T) {
	cache := NewCache()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "job:42", []byte("old"), time.Minute))
	clock = clock.Add(2 * time.Minute)

	// The first clock read inside Get happens between its read and write
	// locks; a writer refreshes the key right there.
	refreshed := false
	cache.now = func() time.Time {
		if !refreshed {
			refreshed = true
			require.NoError(t, cache.Set(ctx, "job:42", []byte("new"), time.Minute))
		}
		return clock
	}

	got, err := cache.Get(ctx, "job:42")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	got, err = cache.Get(ctx, "job:42")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCache_Isolation(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()
	value := []byte("abc")

	require.NoError(t, cache.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := cache.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}
