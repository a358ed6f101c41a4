package temporalworker

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/appealsync-backend/internal/platform/logger"
	"github.com/yungbote/appealsync-backend/internal/temporalx"
	"github.com/yungbote/appealsync-backend/internal/temporalx/snapshotrun"
)

type Runner struct {
	log     *logger.Logger
	tc      temporalsdkclient.Client
	cfg     temporalx.Config
	engine  snapshotrun.Reconciler
	metrics snapshotrun.Observer
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	cfg temporalx.Config,
	engine snapshotrun.Reconciler,
	metrics snapshotrun.Observer,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if log == nil || engine == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	return &Runner{
		log:     log.With("service", "TemporalWorker"),
		tc:      tc,
		cfg:     cfg,
		engine:  engine,
		metrics: metrics,
	}, nil
}

// Start registers the snapshot workflow, starts polling the task queue, and
// ensures the interval schedule. The worker stops when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	if r == nil || r.tc == nil {
		return fmt.Errorf("temporal worker not initialized")
	}
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	if r.cfg.AutoRegisterNamespace {
		if err := temporalx.EnsureNamespace(ctx, r.cfg, r.log); err != nil {
			r.log.Warn("Temporal namespace ensure failed; worker will retry on start", "namespace", r.cfg.Namespace, "error", err)
		}
	}

	var started worker.Worker
	err := r.cfg.WorkerStart.Do(ctx, func(ctx context.Context, attempt int) error {
		w := r.newWorker()
		if err := w.Start(); err != nil {
			w.Stop()
			var nfe *serviceerror.NamespaceNotFound
			if errors.As(err, &nfe) {
				if r.cfg.AutoRegisterNamespace {
					_ = temporalx.EnsureNamespace(ctx, r.cfg, r.log)
				}
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", r.cfg.Namespace, err)
			}
			return err
		}
		r.log.Info("Temporal worker started", "task_queue", r.cfg.TaskQueue, "attempts", attempt)
		started = w
		return nil
	}, nil, func(attempt int, err error) {
		r.log.Warn("Temporal worker failed to start; retrying", "task_queue", r.cfg.TaskQueue, "attempt", attempt, "error", err)
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		started.Stop()
	}()
	if err := temporalx.EnsureSchedule(ctx, r.tc, r.cfg, r.log); err != nil {
		r.log.Warn("Snapshot schedule not registered", "schedule_id", r.cfg.ScheduleID, "error", err)
	}
	return nil
}

func (r *Runner) newWorker() worker.Worker {
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		// One snapshot at a time; the bulk pass holds a single transaction.
		MaxConcurrentActivityExecutionSize:     1,
		MaxConcurrentWorkflowTaskExecutionSize: 2,
	})
	acts := &snapshotrun.Activities{Log: r.log, Engine: r.engine, Metrics: r.metrics}
	w.RegisterWorkflowWithOptions(snapshotrun.Workflow, workflow.RegisterOptions{Name: snapshotrun.WorkflowName})
	w.RegisterActivityWithOptions(acts.Reconcile, activity.RegisterOptions{Name: snapshotrun.ActivityReconcile})
	return w
}
