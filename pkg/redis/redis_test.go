package redis

import (
	"testing"

	"github.com/stockwise/backend/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, _ := New(cfg)
	limiter := NewRateLimiter(client, "test")

	// When Redis is disabled, all requests should be allowed
	allowed, remaining, err := limiter.Allow(nil, MarketRateLimit)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !allowed {
		t.Error("Expected request to be allowed when Redis disabled")
	}
	if remaining != MarketRateLimit.Limit {
		t.Errorf("Expected remaining = %d, got %d", MarketRateLimit.Limit, remaining)
	}
}

func TestCache_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, _ := New(cfg)
	cache := NewCache(client, "test")

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(nil, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "HistoryKey",
			fn:       func() string { return HistoryKey("RELIANCE.NS") },
			expected: "history:RELIANCE.NS",
		},
		{
			name:     "RecommendationKey",
			fn:       func() string { return RecommendationKey("TCS.NS") },
			expected: "recommendation:TCS.NS",
		},
		{
			name:     "QuoteKey",
			fn:       func() string { return QuoteKey("INFY.NS") },
			expected: "quote:INFY.NS",
		},
		{
			name:     "NewsKey",
			fn:       func() string { return NewsKey("SBIN.NS") },
			expected: "news:SBIN.NS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
