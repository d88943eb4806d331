package accesslog

import (
	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
)

// Middleware records every call that reaches it once the handler has answered
func Middleware(al *AccessLogger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		actor, _ := api.Actor(ctx, "")
		status := ctx.Writer.Status()
		al.Log(Entry{
			Actor:     actor,
			Route:     ctx.FullPath(),
			Method:    ctx.Request.Method,
			Target:    ctx.GetString(api.TargetContextKey),
			Status:    status,
			Outcome:   OutcomeOf(status),
			IP:        ctx.ClientIP(),
			UserAgent: ctx.Request.UserAgent(),
		})
	}
}
