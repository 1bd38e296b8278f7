package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/itemsvc/internal/observability/metrics"
)

// Metrics returns a middleware that times every request, increments the
// request counter, records the latency histogram, and tracks the in-flight
// gauge. The route template is used as the path label to keep cardinality
// bounded.
func Metrics(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		m.IncInProgress()

		c.Next()

		m.DecInProgress()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		m.RecordRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
