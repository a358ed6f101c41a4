package temporalx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/appealsync-backend/internal/platform/logger"
	"github.com/yungbote/appealsync-backend/internal/temporalx/snapshotrun"
)

// EnsureSchedule registers the interval schedule that starts the snapshot
// workflow, or updates the interval of an existing one. Overlapping runs are skipped.
func EnsureSchedule(ctx context.Context, c temporalsdkclient.Client, cfg Config, log *logger.Logger) error {
	if c == nil {
		return fmt.Errorf("temporal client is not configured")
	}
	id := strings.TrimSpace(cfg.ScheduleID)
	if id == "" || cfg.SnapshotInterval <= 0 {
		return fmt.Errorf("temporal schedule requires id and positive interval")
	}

	spec := temporalsdkclient.ScheduleSpec{
		Intervals: []temporalsdkclient.ScheduleIntervalSpec{{Every: cfg.SnapshotInterval}},
	}
	_, err := c.ScheduleClient().Create(ctx, temporalsdkclient.ScheduleOptions{
		ID:   id,
		Spec: spec,
		Action: &temporalsdkclient.ScheduleWorkflowAction{
			ID:        id + "-run",
			Workflow:  snapshotrun.WorkflowName,
			TaskQueue: cfg.TaskQueue,
		},
		Overlap: enums.SCHEDULE_OVERLAP_POLICY_SKIP,
	})
	if err == nil {
		if log != nil {
			log.Info("Registered snapshot schedule", "schedule_id", id, "every", cfg.SnapshotInterval)
		}
		return nil
	}
	if !errors.Is(err, temporal.ErrScheduleAlreadyRunning) {
		return fmt.Errorf("create schedule %s: %w", id, err)
	}

	h := c.ScheduleClient().GetHandle(ctx, id)
	err = h.Update(ctx, temporalsdkclient.ScheduleUpdateOptions{
		DoUpdate: func(in temporalsdkclient.ScheduleUpdateInput) (*temporalsdkclient.ScheduleUpdate, error) {
			sched := in.Description.Schedule
			sched.Spec = &spec
			return &temporalsdkclient.ScheduleUpdate{Schedule: &sched}, nil
		},
	})
	if err != nil {
		return fmt.Errorf("update schedule %s: %w", id, err)
	}
	if log != nil {
		log.Info("Updated snapshot schedule", "schedule_id", id, "every", cfg.SnapshotInterval)
	}
	return nil
}
