package testutil

// Package testutil provides env-guarded helpers for tests that need live
// infrastructure. Unit tests should prefer the doubles in internal/mocks.

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetupTestRedis creates a Redis client for testing.
// Tests are skipped when Redis is not reachable, unless TEST_REQUIRE_REDIS
// is set, in which case they fail.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if os.Getenv("TEST_REQUIRE_REDIS") != "" {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	return client
}
