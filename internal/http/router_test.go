package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/appealsync-backend/internal/http/handlers"
	"github.com/yungbote/appealsync-backend/internal/observability"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

func TestRouterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := NewRouter(RouterConfig{
		Log:           logger.NewNop(),
		ServiceName:   "appealsync-test",
		Metrics:       m,
		OpsToken:      "tok",
		HealthHandler: httpH.NewHealthHandler(nil),
		SyncHandler:   httpH.NewSyncHandler(logger.NewNop(), nil, 0),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck=%d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}

	// The ops token is checked before the handler touches the engine.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/snapshot", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("snapshot without token=%d want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/healthcheck",status="200"`) {
		t.Fatalf("metrics body missing healthcheck request:\n%s", rec.Body.String())
	}
}
