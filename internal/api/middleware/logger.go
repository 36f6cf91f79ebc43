package middleware

import (
	"time"

	"uk-demand-dashboard/internal/metrics"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Logger logs one line per request and records it in m (which may be nil).
func Logger(logger *log.Logger, m *metrics.Metrics) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		m.ObserveRequest(c.FullPath(), status, elapsed)

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, "query", q)
		}
		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Debug("request", fields...)
		}
	}
}
