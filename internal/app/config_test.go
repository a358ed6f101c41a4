package app

import (
	"testing"
	"time"

	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("STREAM_CONSUMER", "worker-7")
	t.Setenv("STREAM_BLOCK_MS", "250")
	t.Setenv("STREAM_CASE_S78", "custom:s78")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SYNC_STALE_AFTER_SECONDS", "120")

	cfg := LoadConfig(logger.NewNop())
	if cfg.Streams.Consumer != "worker-7" || cfg.Streams.Group != "appealsync" {
		t.Fatalf("streams=%+v", cfg.Streams)
	}
	if cfg.Streams.Block != 250*time.Millisecond {
		t.Fatalf("block=%v", cfg.Streams.Block)
	}
	if cfg.Names.CaseS78 != "custom:s78" || cfg.Names.CaseHAS != "appeals:case-has" {
		t.Fatalf("names=%+v", cfg.Names)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins=%v", cfg.CORSOrigins)
	}
	if cfg.StaleAfter != 2*time.Minute {
		t.Fatalf("staleAfter=%v", cfg.StaleAfter)
	}
	if cfg.Upstream.PageSize != 500 || cfg.Geocode.Timeout != 10*time.Second {
		t.Fatalf("client defaults: upstream=%+v geocode=%+v", cfg.Upstream, cfg.Geocode)
	}
}

func TestDefaultConsumerName(t *testing.T) {
	if defaultConsumerName() == "" {
		t.Fatalf("consumer name must not be empty")
	}
}
