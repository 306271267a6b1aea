package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig describes a fixed-window counter limit.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// RateLimitMiddleware enforces a per-client fixed-window limit backed by a
// Redis counter. Authenticated requests are keyed by user ID, anonymous ones
// by remote address. Redis failures fail open: a broken limiter must not take
// the API down with it.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := r.RemoteAddr
			if userID, ok := GetUserID(r.Context()); ok {
				clientID = userID
			}
			key := fmt.Sprintf("%s:%s", config.KeyPrefix, clientID)

			ctx := r.Context()
			pipe := redisClient.TxPipeline()
			incr := pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, config.Window)
			if _, err := pipe.Exec(ctx); err != nil {
				logger.Error("Rate limit counter unavailable", zap.Error(err), zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}

			count := incr.Val()
			if count > int64(config.RequestsPerWindow) {
				ttl, err := redisClient.TTL(ctx, key).Result()
				if err != nil || ttl < 0 {
					ttl = config.Window
				}

				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(config.RequestsPerWindow-int(count)))
			next.ServeHTTP(w, r)
		})
	}
}
