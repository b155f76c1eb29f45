package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPMetrics counts requests and records latency per method, route pattern
// and status. A nil or failing meter yields a pass-through middleware.
func HTTPMetrics(meter metric.Meter, logger *zap.Logger) gin.HandlerFunc {
	if meter == nil {
		return passThrough
	}
	metrics, err := telemetry.NewHTTPMetrics(meter)
	if err != nil {
		if logger != nil {
			logger.Warn("HTTP metrics disabled", zap.Error(err))
		}
		return passThrough
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.Observe(c.Request.Context(), c.Request.Method, routePattern(c), c.Writer.Status(), time.Since(start))
	}
}

// routePattern returns the matched route ("/api/v1/orders/:id") rather than
// the raw path to keep label cardinality bounded
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

func passThrough(c *gin.Context) {
	c.Next()
}
