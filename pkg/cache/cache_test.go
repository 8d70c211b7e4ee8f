package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk/config"
	"github.com/projectdesk/projectdesk/pkg/cache"
)

func TestConnectWithoutAddressDisablesCache(t *testing.T) {
	require.NoError(t, cache.Connect(config.RedisConfig{}))
	assert.False(t, cache.Enabled())
}

func TestDisabledCacheIsNoop(t *testing.T) {
	require.NoError(t, cache.Connect(config.RedisConfig{}))
	ctx := context.Background()

	var dest []string
	assert.False(t, cache.Get(ctx, "k", &dest))
	assert.NoError(t, cache.Set(ctx, "k", []string{"a"}, time.Minute))
	assert.NoError(t, cache.Del(ctx, "k"))
	assert.NoError(t, cache.Close())
}

func TestRememberCallsLoaderWhenDisabled(t *testing.T) {
	require.NoError(t, cache.Connect(config.RedisConfig{}))
	ctx := context.Background()

	calls := 0
	load := func() ([]int, error) {
		calls++
		return []int{1, 2}, nil
	}

	for i := 0; i < 2; i++ {
		v, err := cache.Remember(ctx, "nums", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, v)
	}
	assert.Equal(t, 2, calls)

	boom := errors.New("boom")
	_, err := cache.Remember(ctx, "nums", time.Minute, func() ([]int, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestConnectUnreachableServer(t *testing.T) {
	err := cache.Connect(config.RedisConfig{Addr: "127.0.0.1:1"})

	assert.Error(t, err)
	assert.False(t, cache.Enabled())
}
