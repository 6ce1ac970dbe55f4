package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "buffzone.backend/internal/domain/errors"
	"buffzone.backend/internal/infrastructure/statuscache"
	"buffzone.backend/internal/interfaces/http/response"
)

// DefaultHeartbeatInterval is how often an idle stream emits a ping event.
const DefaultHeartbeatInterval = 30 * time.Second

// StreamHandler serves payment status over Server-Sent Events.
type StreamHandler struct {
	cache     *statuscache.Cache
	heartbeat time.Duration
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(cache *statuscache.Cache, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeatInterval
	}
	return &StreamHandler{cache: cache, heartbeat: heartbeat}
}

// StreamStatus streams status events for one payment key. The last known
// entry is replayed immediately with cached=true; a terminal entry closes the
// stream right after replay. Otherwise the connection stays open for live
// updates with periodic heartbeats until a terminal status arrives or the
// client disconnects.
// GET /api/v1/payment-status/stream?uuid= | ?orderCode=
func (h *StreamHandler) StreamStatus(c *gin.Context) {
	key := c.Query("uuid")
	if key == "" {
		key = c.Query("orderCode")
	}
	if key == "" {
		response.Error(c, apperrors.BadRequest("uuid or orderCode is required"))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Subscribe before replaying the cached entry so an update landing in
	// between is not lost. The callback never blocks the cache's delivery
	// lock; if the buffer is full the oldest update is dropped in favor of
	// the newest, which is the one the client needs.
	updates := make(chan statuscache.Entry, 16)
	unsubscribe := h.cache.Subscribe(key, func(e statuscache.Entry) {
		for {
			select {
			case updates <- e:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer unsubscribe()

	if entry, ok := h.cache.Get(key); ok {
		entry.Cached = true
		c.SSEvent("status", entry)
		c.Writer.Flush()
		if entry.Terminal() {
			return
		}
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-updates:
			entry.Cached = false
			c.SSEvent("status", entry)
			c.Writer.Flush()
			if entry.Terminal() {
				return
			}
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"time": time.Now().UTC().Format(time.RFC3339)})
			c.Writer.Flush()
		}
	}
}
