package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/internal/logging"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per user in fixed Redis windows.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter instance. A nil client disables it.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// NewRecipeCreationRateLimiter limits recipe creation to limit per user per hour.
func NewRecipeCreationRateLimiter(redisClient *redis.Client, limit int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:recipe_creation",
	})
}

// Enabled reports whether the limiter has a backend and a positive limit.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.redis != nil && rl.config.Limit > 0
}

// RateLimitMiddleware enforces the limit for the authenticated user. It must
// run after RequireAuth.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Enabled() {
			c.Next()
			return
		}

		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": msgNoCredentials})
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), strconv.FormatUint(uint64(userID), 10))
		if err != nil {
			logging.Warn("rate limit check failed", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetTime).Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": fmt.Sprintf("Превышен лимит запросов: %d за %v.", rl.config.Limit, rl.config.Window),
			})
			return
		}

		c.Next()
	}
}

// IsAllowed counts a request for key in the current window.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}
