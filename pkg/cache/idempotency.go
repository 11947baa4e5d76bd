package cache

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"time"

	"xuni/internal/shared/constants"
	"xuni/internal/shared/utils/response"
	"xuni/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplay         = "X-Idempotent-Replay"
)

// Replay is a stored response that can be sent again for the same key
type Replay struct {
	Status   int                                    `json:"status"`
	Envelope *response.Envelope[stdjson.RawMessage] `json:"envelope"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored envelope for requests that repeat an
// Idempotency-Key. Only 2xx envelope bodies are stored. Entries that cannot
// be read back are evicted and the request is served as if uncached.
func Idempotency(svc Service, ttl time.Duration, l *logger.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = constants.TTL_IDEMPOTENCY_DEFAULT
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := constants.BuildIdempotencyKey(c.Request.Method, c.Request.URL.Path, key)

		if svc.Exists(ctx, cacheKey) {
			var stored Replay
			err := svc.Get(ctx, cacheKey, &stored)
			switch {
			case err == nil && stored.Envelope != nil:
				c.Header(HeaderReplay, "true")
				response.AbortWith(c, stored.Status, stored.Envelope)
				return
			case errors.Is(err, ErrCacheMiss):
				// expired between the two calls
			default:
				// unreadable entry: evict it so this request stores a fresh one
				l.Warn("idempotency lookup failed, evicting entry", zap.String("key", cacheKey), zap.Error(err))
				if delErr := svc.Delete(ctx, cacheKey); delErr != nil {
					l.Warn("idempotency eviction failed", zap.String("key", cacheKey), zap.Error(delErr))
				}
			}
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < 200 || status >= 300 {
			return
		}

		env := new(response.Envelope[stdjson.RawMessage])
		if err := json.Unmarshal(rec.body.Bytes(), env); err != nil {
			l.Debug("response is not an envelope, not storing", zap.String("key", cacheKey), zap.Error(err))
			return
		}

		if err := svc.Set(ctx, cacheKey, Replay{Status: status, Envelope: env}, ttl); err != nil {
			l.Warn("idempotency store failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}
