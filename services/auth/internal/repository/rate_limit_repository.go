package repository

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimitRepository counts requests per key in fixed windows held in Redis.
type RateLimitRepository struct {
	client   redis.UniversalClient
	requests int
	window   time.Duration
}

func NewRateLimitRepository(client redis.UniversalClient, requests int, window time.Duration) *RateLimitRepository {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimitRepository{client: client, requests: requests, window: window}
}

// Allow increments the counter for key and reports whether it is still
// within the limit. Callers decide what to do on error.
func (r *RateLimitRepository) Allow(ctx context.Context, key string) (bool, error) {
	if r.client == nil {
		return true, fmt.Errorf("rate limit: redis client is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sum := sha256.Sum256([]byte(key))
	storeKey := fmt.Sprintf("rl:%x", sum)

	raw, err := fixedWindowScript.Run(ctx, r.client, []string{storeKey}, r.window.Milliseconds()).Result()
	if err != nil {
		return true, fmt.Errorf("rate limit: %w", err)
	}
	count, ok := raw.(int64)
	if !ok {
		return true, fmt.Errorf("rate limit: unexpected redis response type %T", raw)
	}
	return count <= int64(r.requests), nil
}
