package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/appealsync-backend/internal/clients/geocode"
	"github.com/yungbote/appealsync-backend/internal/clients/redis"
	"github.com/yungbote/appealsync-backend/internal/clients/upstream"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
	"github.com/yungbote/appealsync-backend/internal/temporalx"
)

// Clients holds the outbound integrations. Each one is nil when unconfigured.
type Clients struct {
	Redis    *goredis.Client
	Geocode  geocode.Client
	Upstream upstream.Client
	Temporal temporalsdkclient.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	} else {
		log.Warn("REDIS_ADDR not set; stream consumer disabled")
	}

	if cfg.Geocode.BaseURL != "" {
		gc, err := geocode.New(log, cfg.Geocode)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init geocode client: %w", err)
		}
		out.Geocode = gc
	} else {
		log.Warn("GEOCODE_BASE_URL not set; cases will be stored without coordinates")
	}

	if cfg.Upstream.BaseURL != "" {
		uc, err := upstream.New(log, cfg.Upstream)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init upstream client: %w", err)
		}
		out.Upstream = uc
	} else {
		log.Warn("UPSTREAM_BASE_URL not set; bulk snapshot disabled")
	}

	tc, err := temporalx.NewClient(context.Background(), log, cfg.Temporal)
	if err != nil {
		out.Close()
		return Clients{}, fmt.Errorf("init temporal: %w", err)
	}
	out.Temporal = tc
	return out, nil
}

func (c Clients) Close() {
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
