package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	domainerrors "homeservice.backend/internal/domain/errors"
	"homeservice.backend/pkg/logger"
	"homeservice.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration bounds how long a key stays "processing"
	LockDuration = 30 * time.Second
	// DefaultRetention is how long a completed response is replayed
	DefaultRetention = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key from the same user on the same route.
func IdempotencyMiddleware(retention time.Duration) gin.HandlerFunc {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s:%s", userID, c.FullPath(), key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"code":    domainerrors.CodeIdempotencyConflict,
					"message": "request already in progress",
				})
				return
			}
			replay(c, val)
			return
		case !errors.Is(err, redis.ErrNil):
			logger.Warn(ctx, "Idempotency store unavailable, processing without replay", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil {
			logger.Warn(ctx, "Idempotency store unavailable, processing without replay", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    domainerrors.CodeIdempotencyConflict,
				"message": "request already in progress",
			})
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			stored := storedResponse{Status: status}
			if w.body.Len() > 0 {
				stored.Body = w.body.Bytes()
			}
			payload, err := json.Marshal(stored)
			if err == nil {
				err = redisSet(ctx, storageKey, string(payload), retention)
			}
			if err == nil {
				return
			}
			logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
		}
		// release so the client can retry
		_ = redisDel(ctx, storageKey)
	}
}

func replay(c *gin.Context, stored string) {
	status := int(gjson.Get(stored, "status").Int())
	if status == 0 {
		status = http.StatusOK
	}
	c.Header("X-Idempotency-Hit", "true")
	c.Data(status, "application/json; charset=utf-8", []byte(gjson.Get(stored, "body").Raw))
	c.Abort()
}
