package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UserContextKey holds the authenticated subject set by the auth middleware
	UserContextKey = "user"

	// ActorHeader names the acting user when auth is disabled
	ActorHeader = "X-Storage-Actor"

	// TargetContextKey holds the path a storage call acted on, for the access log
	TargetContextKey = "target"
)

// Actor resolves the identity a request acts as. An authenticated subject always
// wins; otherwise the explicit fallback (a request field) or the actor header is used.
func Actor(ctx *gin.Context, fallback string) (string, bool) {
	if user := ctx.GetString(UserContextKey); user != "" {
		return user, true
	}
	if actor := strings.TrimSpace(fallback); actor != "" {
		return actor, true
	}
	if actor := strings.TrimSpace(ctx.GetHeader(ActorHeader)); actor != "" {
		return actor, true
	}
	return "", false
}
