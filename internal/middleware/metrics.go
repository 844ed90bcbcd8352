package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"constructo/internal/metrics"
)

// RequestMetrics records latency and count per route template, and logs each
// request at debug level.
func RequestMetrics(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start)

		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(elapsed.Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("status", status),
			zap.Duration("elapsed", elapsed),
		)
	}
}
