package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/metrics"
)

// Metrics records request counts and latency per route template
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(ctx.Request.Method, path, ctx.Writer.Status(), time.Since(start))
	}
}
