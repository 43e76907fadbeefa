// Package ratelimit provides request rate limiting with a sliding window
// algorithm, Redis-backed with an in-memory fallback.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"showrunner/internal/config"
	"showrunner/internal/logging"
)

// LimitResult reports the outcome of one rate limit check
type LimitResult struct {
	Allowed    bool          `json:"allowed"`
	Count      int           `json:"count"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
	ResetTime  time.Time     `json:"reset_time"`
}

// Limiter performs rate limit checks per caller key
type Limiter interface {
	Check(ctx context.Context, key string) (*LimitResult, error)
}

// slidingWindowScript counts requests in a rolling window inside Redis so
// concurrent checks across instances stay consistent
const slidingWindowScript = `
-- KEYS[1]: rate limit key
-- ARGV[1]: limit
-- ARGV[2]: window in milliseconds
-- ARGV[3]: current time in milliseconds

local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

local current = redis.call('ZCARD', key)
local allowed = current < limit

if allowed then
    redis.call('ZADD', key, now, now .. ':' .. math.random())
    current = current + 1
    redis.call('EXPIRE', key, math.ceil(window / 1000))
end

local remaining = math.max(0, limit - current)
local resetTime = now + window

return {allowed and 1 or 0, current, remaining, resetTime}
`

// RedisLimiter implements Redis-backed sliding window rate limiting
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
}

// NewRedisLimiter connects to Redis and returns a limiter enforcing
// requestsPerMinute per key
func NewRedisLimiter(cfg *config.RateLimitConfig) (*RedisLimiter, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logging.Info("connected to Redis for rate limiting", "addr", cfg.RedisAddr)

	return &RedisLimiter{
		client: rdb,
		script: redis.NewScript(slidingWindowScript),
		limit:  cfg.RequestsPerMinute,
		window: time.Minute,
	}, nil
}

// Check counts the request against the key and reports whether it fits
func (rl *RedisLimiter) Check(ctx context.Context, key string) (*LimitResult, error) {
	now := time.Now().UnixMilli()
	fullKey := "ratelimit:" + key

	result, err := rl.script.Run(ctx, rl.client, []string{fullKey},
		rl.limit, rl.window.Milliseconds(), now).Result()
	if err != nil {
		return nil, fmt.Errorf("sliding window script failed: %w", err)
	}

	return parseScriptResult(result, rl.limit)
}

// Reset clears the rate limit state for a key
func (rl *RedisLimiter) Reset(ctx context.Context, key string) error {
	return rl.client.Del(ctx, "ratelimit:"+key).Err()
}

// Close releases the Redis connection
func (rl *RedisLimiter) Close() error {
	return rl.client.Close()
}

// parseScriptResult decodes the four integers the Lua script returns:
// allowed flag, current count, remaining, and reset time in milliseconds
func parseScriptResult(result interface{}, limit int) (*LimitResult, error) {
	values, ok := result.([]interface{})
	if !ok || len(values) < 4 {
		return nil, fmt.Errorf("unexpected script reply: %v", result)
	}

	var nums [4]int64
	for i, v := range values[:4] {
		n, err := strconv.ParseInt(fmt.Sprint(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric script reply at index %d: %w", i, err)
		}
		nums[i] = n
	}

	resetTime := time.UnixMilli(nums[3])
	retryAfter := time.Until(resetTime)
	if retryAfter < 0 {
		retryAfter = 0
	}

	return &LimitResult{
		Allowed:    nums[0] == 1,
		Count:      int(nums[1]),
		Limit:      limit,
		Remaining:  int(nums[2]),
		RetryAfter: retryAfter,
		ResetTime:  resetTime,
	}, nil
}
