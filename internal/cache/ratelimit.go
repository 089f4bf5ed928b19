package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitIPPrefix is the Redis key prefix for IP rate limits.
	rateLimitIPPrefix = "empproxy:ratelimit:ip:"
	// rateLimitIPTTL is the TTL for IP rate limit keys.
	rateLimitIPTTL = 10 * time.Second
)

// ErrInvalidRateLimit is returned for non-positive rate or burst values.
var ErrInvalidRateLimit = errors.New("rate and burst must be positive")

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes a token atomically.
// Returns {allowed, retry_after_seconds, remaining_tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckIPRateLimit checks and updates the token bucket for an IP address.
// The IP is hashed so raw addresses are never stored.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	if ratePerSecond <= 0 || burst <= 0 {
		return nil, ErrInvalidRateLimit
	}

	res, err := tokenBucketScript.Run(ctx, c.client,
		[]string{ipRateLimitKey(ip)},
		ratePerSecond, burst, time.Now().Unix(), int(rateLimitIPTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run token bucket: %w", err)
	}
	return parseBucketResult(res)
}

func parseBucketResult(res []int64) (*RateLimitResult, error) {
	if len(res) != 3 {
		return nil, fmt.Errorf("unexpected token bucket reply of length %d", len(res))
	}
	return &RateLimitResult{
		Allowed:    res[0] == 1,
		RetryAfter: time.Duration(res[1]) * time.Second,
		Remaining:  res[2],
	}, nil
}

func ipRateLimitKey(ip string) string {
	return rateLimitIPPrefix + hashIP(ip)
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
