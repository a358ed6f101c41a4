package snapshotrun

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
)

// Workflow runs a single snapshot reconcile. Schedules start one per interval.
func Workflow(ctx workflow.Context) (*casesync.SnapshotResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: activityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    10 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    2 * time.Minute,
			MaximumAttempts:    maxAttempts,
		},
	})

	var out casesync.SnapshotResult
	if err := workflow.ExecuteActivity(ctx, ActivityReconcile).Get(ctx, &out); err != nil {
		workflow.GetLogger(ctx).Error("Snapshot reconcile failed", "error", err)
		return nil, err
	}
	workflow.GetLogger(ctx).Info("Snapshot reconcile finished",
		"cases_fetched", out.CasesFetched,
		"cases_upserted", out.CasesUpserted,
		"cases_deleted", out.CasesDeleted,
	)
	return &out, nil
}
