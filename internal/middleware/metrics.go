package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawsched/pawsched-api/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records one observation per request labelled by route template, so
// schedule ids never become label values.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
