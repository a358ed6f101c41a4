package app

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/appealsync-backend/internal/clients/geocode"
	"github.com/yungbote/appealsync-backend/internal/clients/redis"
	"github.com/yungbote/appealsync-backend/internal/clients/upstream"
	"github.com/yungbote/appealsync-backend/internal/observability"
	"github.com/yungbote/appealsync-backend/internal/platform/envutil"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
	"github.com/yungbote/appealsync-backend/internal/temporalx"
	"github.com/yungbote/appealsync-backend/internal/transport/streams"
)

type Config struct {
	HTTPAddr    string
	CORSOrigins []string
	OpsToken    string
	// StaleAfter marks the watermark stale on the status endpoint.
	StaleAfter     time.Duration
	MetricsEnabled bool

	Redis    redis.Config
	Streams  streams.Config
	Names    streams.StreamNames
	Geocode  geocode.Config
	Upstream upstream.Config

	GeocodeConcurrency int
	SnapshotInterval   time.Duration

	Temporal temporalx.Config
	Otel     observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	defaults := streams.DefaultStreamNames()
	return Config{
		HTTPAddr:       envutil.String("HTTP_ADDR", ":8080", log),
		CORSOrigins:    splitList(envutil.String("HTTP_CORS_ORIGINS", "", log)),
		OpsToken:       envutil.String("OPS_API_TOKEN", "", log),
		StaleAfter:     envutil.Seconds("SYNC_STALE_AFTER_SECONDS", 3600, log),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false, log),

		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
		},
		Streams: streams.Config{
			Group:         envutil.String("STREAM_GROUP", "appealsync", log),
			Consumer:      envutil.String("STREAM_CONSUMER", defaultConsumerName(), log),
			BatchSize:     int64(envutil.Int("STREAM_BATCH_SIZE", 10, log)),
			Block:         envutil.Millis("STREAM_BLOCK_MS", 2000, log),
			MaxDeliveries: int64(envutil.Int("STREAM_MAX_DELIVERIES", 5, log)),
			ReclaimIdle:   envutil.Seconds("STREAM_RECLAIM_IDLE_SECONDS", 60, log),
		},
		Names: streams.StreamNames{
			CaseHAS:   envutil.String("STREAM_CASE_HAS", defaults.CaseHAS, log),
			CaseS78:   envutil.String("STREAM_CASE_S78", defaults.CaseS78, log),
			Inspector: envutil.String("STREAM_INSPECTOR", defaults.Inspector, log),
			Event:     envutil.String("STREAM_EVENT", defaults.Event, log),
		},
		Geocode: geocode.Config{
			BaseURL:    envutil.String("GEOCODE_BASE_URL", "", log),
			APIKey:     envutil.String("GEOCODE_API_KEY", "", log),
			Timeout:    envutil.Seconds("GEOCODE_TIMEOUT_SECONDS", 10, log),
			RetryCount: envutil.Int("GEOCODE_RETRY_COUNT", 1, log),
		},
		Upstream: upstream.Config{
			BaseURL:    envutil.String("UPSTREAM_BASE_URL", "", log),
			APIKey:     envutil.String("UPSTREAM_API_KEY", "", log),
			PageSize:   envutil.Int("UPSTREAM_PAGE_SIZE", 500, log),
			Timeout:    envutil.Seconds("UPSTREAM_TIMEOUT_SECONDS", 30, log),
			RetryCount: envutil.Int("UPSTREAM_RETRY_COUNT", 2, log),
		},

		GeocodeConcurrency: envutil.Int("SNAPSHOT_GEOCODE_CONCURRENCY", 8, log),
		SnapshotInterval:   envutil.Seconds("SNAPSHOT_INTERVAL_SECONDS", 900, log),

		Temporal: temporalx.LoadConfig(log),
		Otel:     observability.LoadOtelConfig(log),
	}
}

// defaultConsumerName is stable per host so restarts reclaim their own pending entries.
func defaultConsumerName() string {
	if h, err := os.Hostname(); err == nil && strings.TrimSpace(h) != "" {
		return h
	}
	return "appealsync-" + uuid.NewString()[:8]
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
