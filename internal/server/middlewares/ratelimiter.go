package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
)

var rateLimitStore = memory.NewStore()

// RateLimiter limits requests per client IP, formattedRate is e.g. "100-S" or "1000-M"
func RateLimiter(formattedRate string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formattedRate)
	if err != nil {
		panic(err)
	}
	return newRateLimiter(limiter.New(rateLimitStore, rate))
}

func newRateLimiter(l *limiter.Limiter) gin.HandlerFunc {
	return mgin.NewMiddleware(
		l,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			api.AbortWithError(c, http.StatusTooManyRequests, api.KindRateLimited, errors.New("rate limit exceeded"))
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			api.AbortWithError(c, http.StatusInternalServerError, api.KindInternal, err)
		}),
	)
}
