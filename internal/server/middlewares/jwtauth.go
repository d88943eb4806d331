package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/auth"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
)

const (
	bearerPrefix = "Bearer "
	authHeader   = "Authorization"
)

// JWTAuth validates the bearer access token and stores its subject as the request actor.
// When auth is disabled the actor is resolved by the handlers from the request itself.
func JWTAuth(authService *auth.AuthService) gin.HandlerFunc {
	if !authService.IsEnabled() {
		slog.Info("auth middleware disabled")
		return func(ctx *gin.Context) {
			ctx.Next()
		}
	}
	slog.Info("auth middleware enabled")
	return func(ctx *gin.Context) {
		authHeaderValue := ctx.GetHeader(authHeader)
		if authHeaderValue == "" {
			unauthorized(ctx, errors.New("authorization header is missing"))
			return
		}

		if !strings.HasPrefix(authHeaderValue, bearerPrefix) {
			unauthorized(ctx, errors.New("authorization header format must be Bearer {token}"))
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeaderValue, bearerPrefix))
		if tokenString == "" {
			unauthorized(ctx, errors.New("token is missing"))
			return
		}

		claims, err := authService.ValidateAccessToken(ctx, tokenString)
		if err != nil {
			unauthorized(ctx, err)
			return
		}

		ctx.Set(api.UserContextKey, claims.Subject)
		ctx.Next()
	}
}

func unauthorized(ctx *gin.Context, err error) {
	api.AbortWithError(ctx, http.StatusUnauthorized, api.KindUnauthorized, err)
}
