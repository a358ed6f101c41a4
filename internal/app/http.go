package app

import (
	"context"

	"gorm.io/gorm"

	httpx "github.com/yungbote/appealsync-backend/internal/http"
	httpH "github.com/yungbote/appealsync-backend/internal/http/handlers"
	"github.com/yungbote/appealsync-backend/internal/observability"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

func wireServer(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, services Services, metrics *observability.Metrics) *httpx.Server {
	log.Info("Wiring HTTP server...")

	checks := map[string]httpH.Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return clients.Redis.Ping(ctx).Err() }
	}

	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpx.NewServer(httpx.RouterConfig{
		Log:           log,
		ServiceName:   serviceName,
		CORSOrigins:   cfg.CORSOrigins,
		OpsToken:      cfg.OpsToken,
		Metrics:       metrics,
		HealthHandler: httpH.NewHealthHandler(checks),
		SyncHandler:   httpH.NewSyncHandler(log, services.Engine, cfg.StaleAfter),
	})
}
