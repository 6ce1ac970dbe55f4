package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"buffzone.backend/pkg/ratelimit"
)

func TestRateLimitMiddleware_EnforcesBucket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", RateLimitMiddleware(ratelimit.New(2, time.Hour), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusTooManyRequests, do())
}

func TestRateLimitMiddleware_CustomKeyFunc(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	keyFn := func(c *gin.Context) string { return c.GetHeader("X-Api-Key") }
	r.POST("/webhook", RateLimitMiddleware(ratelimit.New(1, time.Hour), keyFn), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
		req.Header.Set("X-Api-Key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do("a"))
	require.Equal(t, http.StatusTooManyRequests, do("a"))
	require.Equal(t, http.StatusOK, do("b"))
}
