package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"buffzone.backend/pkg/logger"
	"buffzone.backend/pkg/signature"
)

// SignatureHeader carries the provider's HMAC of the raw request body
const SignatureHeader = "X-Webhook-Signature"

// SignatureMiddleware verifies the webhook signature over the exact raw body
// before any processing. It fails closed: a missing, malformed or mismatched
// signature rejects the request with no side effects.
func SignatureMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sig := c.GetHeader(SignatureHeader)
		if sig == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_SIGNATURE_MISSING",
				"message": "webhook signature header is required",
			})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "ERR_BAD_REQUEST",
				"message": "failed to read request body",
			})
			return
		}
		// Hand the body back to the handler chain.
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !signature.Verify(secret, body, sig) {
			logger.Warn(c.Request.Context(), "webhook signature rejected",
				zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_SIGNATURE_INVALID",
				"message": "webhook signature verification failed",
			})
			return
		}

		c.Next()
	}
}
