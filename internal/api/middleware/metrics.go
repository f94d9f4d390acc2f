package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voyage-tours/voyage/internal/metrics"
)

// Metrics records every request against its route pattern. Unmatched paths
// share one label.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}
