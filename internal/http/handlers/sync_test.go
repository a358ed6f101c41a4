package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/pkg/httpx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type fakeEngine struct {
	status    *types.PollStatus
	runs      []*types.PollRun
	result    *casesync.SnapshotResult
	err       error
	lastLimit int
}

func (f *fakeEngine) Status(dbctx.Context) (*types.PollStatus, error) { return f.status, f.err }

func (f *fakeEngine) RecentRuns(_ dbctx.Context, limit int) ([]*types.PollRun, error) {
	f.lastLimit = limit
	return f.runs, f.err
}

func (f *fakeEngine) ReconcileSnapshot(dbctx.Context) (*casesync.SnapshotResult, error) {
	return f.result, f.err
}

var fixedNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newRouter(eng SyncEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSyncHandler(logger.NewNop(), eng, 30*time.Minute)
	h.now = func() time.Time { return fixedNow }
	r := gin.New()
	r.GET("/api/sync/status", h.Status)
	r.GET("/api/sync/runs", h.Runs)
	r.POST("/api/sync/snapshot", h.Snapshot)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (%s)", path, err, rec.Body.String())
		}
	}
	return rec.Code
}

func TestSyncStatus(t *testing.T) {
	cases := []struct {
		name      string
		status    *types.PollStatus
		wantStale bool
		wantAt    bool
	}{
		{"never polled", nil, true, false},
		{"fresh", &types.PollStatus{LastPollAt: fixedNow.Add(-5 * time.Minute), CasesFetched: 7}, false, true},
		{"stale", &types.PollStatus{LastPollAt: fixedNow.Add(-2 * time.Hour), CasesFetched: 7}, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				LastPollAt   *time.Time `json:"lastPollAt"`
				CasesFetched int        `json:"casesFetched"`
				Stale        bool       `json:"stale"`
			}
			code := do(t, newRouter(&fakeEngine{status: tc.status}), http.MethodGet, "/api/sync/status", &out)
			if code != http.StatusOK {
				t.Fatalf("status=%d", code)
			}
			if out.Stale != tc.wantStale || (out.LastPollAt != nil) != tc.wantAt {
				t.Fatalf("out=%+v", out)
			}
			if tc.status != nil && out.CasesFetched != 7 {
				t.Fatalf("casesFetched=%d", out.CasesFetched)
			}
		})
	}
}

func TestSyncStatusError(t *testing.T) {
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	code := do(t, newRouter(&fakeEngine{err: errors.New("db down")}), http.MethodGet, "/api/sync/status", &out)
	if code != http.StatusInternalServerError || out.Error.Code != "status_failed" {
		t.Fatalf("code=%d out=%+v", code, out)
	}
}

func TestSyncSnapshot(t *testing.T) {
	eng := &fakeEngine{result: &casesync.SnapshotResult{CasesFetched: 9, CasesUpserted: 8, CasesDeleted: 2}}
	var out map[string]int
	if code := do(t, newRouter(eng), http.MethodPost, "/api/sync/snapshot", &out); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if out["casesFetched"] != 9 || out["casesDeleted"] != 2 {
		t.Fatalf("out=%v", out)
	}

	eng = &fakeEngine{err: errors.New("fetch snapshot: timeout")}
	if code := do(t, newRouter(eng), http.MethodPost, "/api/sync/snapshot", nil); code != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", code)
	}
}

func TestSyncSnapshotErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"no fetcher", casesync.ErrNoFetcher, http.StatusServiceUnavailable, "snapshot_unavailable"},
		{"upstream status", fmt.Errorf("fetch snapshot: %w", &httpx.StatusError{Op: "fetch appeals page 2", Code: 502}), http.StatusBadGateway, "upstream_failed"},
		{"other", errors.New("commit: conflict"), http.StatusInternalServerError, "snapshot_failed"},
	}
	for _, tt := range tests {
		var out struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		code := do(t, newRouter(&fakeEngine{err: tt.err}), http.MethodPost, "/api/sync/snapshot", &out)
		if code != tt.wantCode || out.Error.Code != tt.wantErr {
			t.Fatalf("%s: code=%d err=%q", tt.name, code, out.Error.Code)
		}
	}
}

func TestSyncRuns(t *testing.T) {
	eng := &fakeEngine{runs: []*types.PollRun{{CasesFetched: 3}}}
	var out struct {
		Runs []types.PollRun `json:"runs"`
	}
	if code := do(t, newRouter(eng), http.MethodGet, "/api/sync/runs?limit=5", &out); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if len(out.Runs) != 1 || eng.lastLimit != 5 {
		t.Fatalf("runs=%v limit=%d", out.Runs, eng.lastLimit)
	}
	if code := do(t, newRouter(eng), http.MethodGet, "/api/sync/runs?limit=0", nil); code != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", code)
	}
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(map[string]Pinger{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	r := gin.New()
	r.GET("/healthcheck", h.HealthCheck)
	r.GET("/readyz", h.Ready)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck=%d %q", rec.Code, rec.Body.String())
	}

	var out struct {
		Ready  bool              `json:"ready"`
		Checks map[string]string `json:"checks"`
	}
	if code := do(t, r, http.MethodGet, "/readyz", &out); code != http.StatusServiceUnavailable {
		t.Fatalf("ready status=%d", code)
	}
	if out.Ready || out.Checks["db"] != "ok" || out.Checks["redis"] == "ok" {
		t.Fatalf("ready=%+v", out)
	}
}
