package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/studio/metrics"
)

// MetricsMiddleware records request count and latency per matched route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
