package snapshotrun

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type Activities struct {
	Log     *logger.Logger
	Engine  Reconciler
	Metrics Observer
}

func (a *Activities) Reconcile(ctx context.Context) (*casesync.SnapshotResult, error) {
	if a == nil || a.Engine == nil {
		return nil, temporal.NewNonRetryableApplicationError("snapshotrun: activity not configured", "misconfigured", nil)
	}
	start := time.Now()
	res, err := a.Engine.ReconcileSnapshot(dbctx.Context{Ctx: ctx})
	if err != nil {
		Observe(a.Metrics, "failed", nil, time.Since(start))
		if errors.Is(err, casesync.ErrNoFetcher) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "misconfigured", err)
		}
		return nil, fmt.Errorf("snapshotrun: %w", err)
	}
	Observe(a.Metrics, "succeeded", res, time.Since(start))
	if a.Log != nil {
		a.Log.Info("Snapshot activity committed",
			"cases_fetched", res.CasesFetched,
			"cases_deleted", res.CasesDeleted,
		)
	}
	return res, nil
}
