package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sniper/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{Redis: config.RedisConfig{Enabled: false}}

	client, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), KeyPrefix)

	allowed, remaining, err := limiter.Allow(context.Background(), YahooRateLimit)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, YahooRateLimit.Limit, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), NasdaqRateLimit))
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), KeyPrefix)
	ctx := context.Background()

	var result []string
	found, err := cache.Get(ctx, UniverseKey("nasdaq"), &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(ctx, "k", "v", TTLShort))
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestCache_GetOrSetDisabledCallsLoader(t *testing.T) {
	cache := NewCache(Disabled(), KeyPrefix)
	calls := 0

	var got []string
	err := cache.GetOrSet(context.Background(), UniverseKey("sp500"), &got, TTLLong, func() (interface{}, error) {
		calls++
		return []string{"AAPL", "MSFT"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, got)
	assert.Equal(t, 1, calls)

	loadErr := errors.New("upstream down")
	err = cache.GetOrSet(context.Background(), "x", &got, TTLLong, func() (interface{}, error) {
		return nil, loadErr
	})
	assert.ErrorIs(t, err, loadErr)
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"UniverseKey", UniverseKey("NASDAQ"), "universe:nasdaq"},
		{"ReferenceKey", ReferenceKey("aapl"), "reference:AAPL"},
		{"HeadlinesKey", HeadlinesKey("msft", 3), "headlines:MSFT:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestYahooLimitFor(t *testing.T) {
	assert.Equal(t, 8, YahooLimitFor(8.7).Limit)
	assert.Equal(t, YahooRateLimit.Limit, YahooLimitFor(0.5).Limit)
	assert.Equal(t, time.Second, YahooLimitFor(3).Window)
}

// Integration test - requires a running Redis (REDIS_HOST)
func TestRateLimiter_Integration(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set, skipping integration test")
	}

	cfg := &config.Config{Redis: config.RedisConfig{Host: host, Port: "6379", Enabled: true}}
	client, err := New(cfg)
	require.NoError(t, err)
	defer client.Close()

	limiter := NewRateLimiter(client, "sniper-test")
	limit := RateLimitConfig{Key: "it-" + time.Now().Format("150405.000000"), Limit: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, limit)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, err := limiter.Allow(ctx, limit)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}
