package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"buffzone.backend/pkg/ratelimit"
)

// RateLimitMiddleware denies requests once the caller's token bucket is
// empty. Keyed by client IP by default; pass keyFn to key by something else.
func RateLimitMiddleware(limiter *ratelimit.Limiter, keyFn func(*gin.Context) string) gin.HandlerFunc {
	if keyFn == nil {
		keyFn = func(c *gin.Context) string { return c.ClientIP() }
	}
	return func(c *gin.Context) {
		if !limiter.Allow(keyFn(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    "ERR_RATE_LIMITED",
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
