package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/appealsync-backend/internal/domain"
	"github.com/yungbote/appealsync-backend/internal/http/response"
	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/ctxutil"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

// SyncEngine is the slice of the reconciliation engine the ops API uses.
type SyncEngine interface {
	Status(dbc dbctx.Context) (*types.PollStatus, error)
	RecentRuns(dbc dbctx.Context, limit int) ([]*types.PollRun, error)
	ReconcileSnapshot(dbc dbctx.Context) (*casesync.SnapshotResult, error)
}

type SyncHandler struct {
	log        *logger.Logger
	engine     SyncEngine
	staleAfter time.Duration
	now        func() time.Time
}

func NewSyncHandler(log *logger.Logger, engine SyncEngine, staleAfter time.Duration) *SyncHandler {
	return &SyncHandler{
		log:        log.With("handler", "SyncHandler"),
		engine:     engine,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

type syncStatus struct {
	LastPollAt   *time.Time `json:"lastPollAt"`
	CasesFetched int        `json:"casesFetched"`
	Stale        bool       `json:"stale"`
}

// GET /api/sync/status
func (h *SyncHandler) Status(c *gin.Context) {
	ps, err := h.engine.Status(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "status_failed", err)
		return
	}
	out := syncStatus{Stale: true}
	if ps != nil {
		at := ps.LastPollAt.UTC()
		out.LastPollAt = &at
		out.CasesFetched = ps.CasesFetched
		out.Stale = h.staleAfter > 0 && h.now().Sub(at) > h.staleAfter
	}
	response.RespondOK(c, out)
}

// GET /api/sync/runs?limit=N
func (h *SyncHandler) Runs(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errInvalidLimit)
			return
		}
		limit = n
	}
	runs, err := h.engine.RecentRuns(dbctx.Context{Ctx: c.Request.Context()}, limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "runs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}

// POST /api/sync/snapshot
func (h *SyncHandler) Snapshot(c *gin.Context) {
	ctx := c.Request.Context()
	res, err := h.engine.ReconcileSnapshot(dbctx.Context{Ctx: ctx})
	if err != nil {
		h.log.Error("Manual snapshot failed", append([]interface{}{"error", err}, ctxutil.LogFields(ctx)...)...)
		response.RespondAPIError(c, snapshotError(err), http.StatusInternalServerError, "snapshot_failed")
		return
	}
	h.log.Info("Manual snapshot committed", append([]interface{}{
		"cases_fetched", res.CasesFetched,
		"cases_deleted", res.CasesDeleted,
	}, ctxutil.LogFields(ctx)...)...)
	response.RespondOK(c, gin.H{
		"casesFetched": res.CasesFetched,
		"casesDeleted": res.CasesDeleted,
	})
}
