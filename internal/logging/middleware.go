package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader echoes the correlation id back to the client.
const RequestIDHeader = "X-Request-ID"

// SlowRequest is the duration above which a request is logged as slow.
const SlowRequest = 500 * time.Millisecond

// RequestLogger tags each request with a correlation id and logs its outcome,
// at error level for 5xx and warn level for 4xx.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, id := WithCorrelationID(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		entry := logrus.WithFields(logrus.Fields{
			string(CorrelationIDKey): id,
			"method":                 c.Request.Method,
			"path":                   c.Request.URL.Path,
			"status_code":            status,
			"duration_ms":            elapsed.Milliseconds(),
		})

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}

		if elapsed > SlowRequest {
			entry.Warnf("slow request: %s", elapsed)
		}
	}
}
