package snapshotrun

import (
	"time"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
)

const (
	WorkflowName      = "case_snapshot"
	ActivityReconcile = "case_snapshot_reconcile"

	activityTimeout = 10 * time.Minute
	maxAttempts     = 3
)

// Reconciler runs one bulk snapshot pass.
type Reconciler interface {
	ReconcileSnapshot(dbc dbctx.Context) (*casesync.SnapshotResult, error)
}

// Observer receives one record per bulk pass.
type Observer interface {
	ObserveSnapshot(status string, fetched, deleted int, dur time.Duration)
}

// Observe reports a pass to o when set. res is nil for failed passes.
func Observe(o Observer, status string, res *casesync.SnapshotResult, dur time.Duration) {
	if o == nil {
		return
	}
	fetched, deleted := 0, 0
	if res != nil {
		fetched, deleted = res.CasesFetched, res.CasesDeleted
	}
	o.ObserveSnapshot(status, fetched, deleted, dur)
}
