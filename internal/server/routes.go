package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ruangobat/storagehub/internal/server/accesslog"
	"github.com/ruangobat/storagehub/internal/server/handlers/api"
	"github.com/ruangobat/storagehub/internal/server/handlers/storage"
	"github.com/ruangobat/storagehub/internal/server/metrics"
	"github.com/ruangobat/storagehub/internal/server/middlewares"
	"github.com/ruangobat/storagehub/internal/version"
)

func SetupRoutes(config *Config, svc *Services) http.Handler {
	r := gin.New()

	storageH := storage.New(svc.Hierarchy)

	r.Use(middlewares.Logger())
	r.Use(gin.Recovery())
	r.Use(middlewares.Metrics())
	r.Use(middlewares.GZIP())
	r.Use(middlewares.CORS(config.HTTP.CORSOrigins))
	if config.HTTP.CertFile != "" {
		r.Use(middlewares.HSTS())
	}

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1/storage")
	v1.Use(middlewares.RateLimiter(config.HTTP.RateLimit))
	v1.Use(middlewares.JWTAuth(svc.Auth))
	if svc.AccessLog != nil {
		v1.Use(accesslog.Middleware(svc.AccessLog))
	}
	{
		v1.GET("/list", storageH.List)
		v1.POST("/folder", storageH.CreateFolder)
		v1.DELETE("/object", storageH.Delete)
		v1.POST("/rename", storageH.Rename)
		v1.POST("/presign-upload", storageH.PresignUpload)
		v1.GET("/presign-download", storageH.PresignDownload)
	}

	r.NoRoute(func(c *gin.Context) {
		c.PureJSON(http.StatusNotFound, &api.Response{
			Error: &api.APIError{Kind: api.KindNotFound, Message: "route not found"},
		})
	})

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.PureJSON(http.StatusMethodNotAllowed, &api.Response{
			Error: &api.APIError{Kind: api.KindInvalidRequest, Message: "method not allowed"},
		})
	})

	return r.Handler()
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.DetailedWithApp())
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Current(),
	})
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
