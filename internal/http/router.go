package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/appealsync-backend/internal/http/handlers"
	httpMW "github.com/yungbote/appealsync-backend/internal/http/middleware"
	"github.com/yungbote/appealsync-backend/internal/observability"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	OpsToken    string
	Metrics     *observability.Metrics

	HealthHandler *httpH.HealthHandler
	SyncHandler   *httpH.SyncHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Sync
		if cfg.SyncHandler != nil {
			api.GET("/sync/status", cfg.SyncHandler.Status)
			api.GET("/sync/runs", cfg.SyncHandler.Runs)
			api.POST("/sync/snapshot", httpMW.RequireOpsToken(cfg.OpsToken), cfg.SyncHandler.Snapshot)
		}
	}
	return r
}
