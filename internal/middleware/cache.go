package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// bodyCapture tees the response body so a successful reply can be cached.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// cacheKey hashes the concrete request path, not the route template:
// parameterized routes must not share entries.
func cacheKey(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("httpcache:%x", sum)
}

// CacheGET serves public GET responses from Redis. With no client configured
// it is a no-op, so the cache stays strictly optional. Only 200 responses
// are stored; everything is JSON on this API so the content type is fixed.
func CacheGET(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if body, err := rdb.Get(c.Request.Context(), key).Bytes(); err == nil && len(body) > 0 {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Header("X-Cache", "MISS")

		c.Next()

		if capture.Status() == http.StatusOK {
			_ = rdb.Set(c.Request.Context(), key, capture.buf.Bytes(), ttl).Err()
		}
	}
}
