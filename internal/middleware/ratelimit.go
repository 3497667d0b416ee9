package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/promisu-backend/internal/logger"
	"github.com/AnshRaj112/promisu-backend/pkg/clientip"
	"github.com/redis/go-redis/v9"
)

const (
	// RateLimitWindow is the fixed counting window per IP
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the limit
	BlockedIPDuration = 15 * time.Minute
)

// fixedWindowScript increments the counter and gives it the window TTL
// whenever it has none, in one atomic step. Returns {count, ttl_ms}.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return {count, ttl}
`)

// RedisRateLimit counts requests per client IP in Redis so the limit holds
// across server instances. Redis errors let the request through.
func RedisRateLimit(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ipAddress := clientip.RealClientIP(r)

			blockedKey := BlockedIPKeyPrefix + ipAddress
			isBlocked, err := client.Exists(ctx, blockedKey).Result()
			if err == nil && isBlocked > 0 {
				writeLimitError(w, http.StatusTooManyRequests, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
				return
			}

			rateLimitKey := RateLimitKeyPrefix + ipAddress
			result, err := fixedWindowScript.Run(ctx, client, []string{rateLimitKey}, RateLimitWindow.Milliseconds()).Int64Slice()
			if err == nil && len(result) != 2 {
				err = fmt.Errorf("unexpected rate limit reply length: %d", len(result))
			}
			if err != nil {
				logger.Warn("rate limit check failed", "ip", ipAddress, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			count, ttl := result[0], time.Duration(result[1])*time.Millisecond
			remaining := RateLimitMaxRequests - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

			if count > RateLimitMaxRequests {
				if err := client.Set(ctx, blockedKey, "1", BlockedIPDuration).Err(); err != nil {
					logger.Warn("failed to block ip", "ip", ipAddress, "error", err)
				} else {
					logger.Warn("ip blocked for excessive requests", "ip", ipAddress, "count", count)
				}
				writeLimitError(w, http.StatusTooManyRequests, "Rate limit exceeded. Your IP has been temporarily blocked.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
