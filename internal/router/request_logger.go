package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sess "ovab-go/internal/session"
)

// RequestLogger logs every request through zap once the handler chain has
// finished, tagged with the battery session when one was resolved. The /ws
// route is logged at disconnect, so its latency spans the connection's
// whole lifetime.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get(SessionContextKey); ok {
			if s, ok := v.(*sess.Session); ok {
				fields = append(fields, zap.String("session", s.ID))
			}
		}

		switch {
		case status >= 500:
			log.Error("Server error", fields...)
		case status >= 400:
			log.Warn("Client error", fields...)
		default:
			// Successful requests stay at Debug; the static assets alone
			// would swamp anything louder.
			log.Debug("Request processed", fields...)
		}
	}
}
