package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"buffzone.backend/pkg/dedup"
)

// RequestIDHeader carries the provider's idempotency token for a delivery
const RequestIDHeader = "X-Request-Id"

type dedupRecord struct {
	status int
	body   []byte
}

type dedupWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *dedupWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// DedupMiddleware answers repeated webhook deliveries from the recorded
// response instead of reprocessing them. The idempotency token is the
// provider's request id header, falling back to a hash of the body.
func DedupMiddleware(d *dedup.Deduplicator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(RequestIDHeader)
		if key == "" {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"code":    "ERR_BAD_REQUEST",
					"message": "failed to read request body",
				})
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)
			key = hex.EncodeToString(sum[:])
		}

		if d.IsDuplicate(key) {
			if rec, ok := d.Result(key); ok {
				stored := rec.(dedupRecord)
				c.Header("X-Dedup-Hit", "true")
				c.Data(stored.status, "application/json", stored.body)
				c.Abort()
				return
			}
		}

		w := &dedupWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		// Only successful outcomes are worth replaying; failures may be retried.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			d.Record(key, dedupRecord{status: c.Writer.Status(), body: w.body.Bytes()})
		}
	}
}
