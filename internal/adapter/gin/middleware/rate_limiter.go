package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// maxRequests is the number of requests allowed per window.
func (c RateLimiterConfig) maxRequests() int64 {
	n := int64(c.RequestsPerSecond * float64(c.WindowSeconds))
	if n < 1 {
		return 1
	}
	return n
}

// fixedWindow increments the per-key counter and starts the window on the
// first hit, atomically.
var fixedWindow = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	end
	return count
`)

// RateLimiter is a fixed-window limiter keyed by route and client IP,
// backed by Redis so several instances share the budget.
type RateLimiter struct {
	client redis.Scripter
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client redis.Scripter, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Handler returns the gin middleware. Redis failures let the request through.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || !rl.config.Enabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:%s:%s:%s", c.Request.Method, route, clientIP)
		limit := rl.config.maxRequests()

		count, err := fixedWindow.Run(c.Request.Context(), rl.client, []string{key}, rl.config.WindowSeconds).Int64()
		if err != nil {
			rl.log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count > limit {
			rl.log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("route", route),
				zap.Int64("count", count),
				zap.Int64("limit", limit),
			)
			msg := fmt.Sprintf("rate limit exceeded: %d requests in %d seconds (limit: %.0f req/s)",
				count, rl.config.WindowSeconds, rl.config.RequestsPerSecond)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": msg,
			})
			return
		}

		c.Next()
	}
}
