package poller

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
	"github.com/yungbote/appealsync-backend/internal/temporalx/snapshotrun"
)

// Poller runs the bulk snapshot pass on a fixed interval when no Temporal
// host is configured.
type Poller struct {
	log      *logger.Logger
	engine   snapshotrun.Reconciler
	interval time.Duration
	metrics  snapshotrun.Observer
	running  atomic.Bool
}

// New builds a poller. metrics may be nil.
func New(baseLog *logger.Logger, engine snapshotrun.Reconciler, interval time.Duration, metrics snapshotrun.Observer) (*Poller, error) {
	if baseLog == nil || engine == nil {
		return nil, fmt.Errorf("poller missing deps")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("poller interval must be positive")
	}
	return &Poller{
		log:      baseLog.With("component", "SnapshotPoller"),
		engine:   engine,
		interval: interval,
		metrics:  metrics,
	}, nil
}

// Start runs one pass immediately and then one per tick until ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.log.Info("Starting snapshot poller", "interval", p.interval)
	go p.runLoop(ctx)
}

func (p *Poller) runLoop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			p.log.Info("Snapshot poller stopped")
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs one pass unless another is already in flight. It reports
// whether a pass ran and succeeded.
func (p *Poller) RunOnce(ctx context.Context) bool {
	if !p.running.CompareAndSwap(false, true) {
		p.log.Warn("Snapshot pass already running; skipping tick")
		return false
	}
	defer p.running.Store(false)

	ok := false
	start := time.Now()
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("Snapshot pass panic", "panic", r)
				snapshotrun.Observe(p.metrics, "panic", nil, time.Since(start))
			}
		}()
		res, err := p.engine.ReconcileSnapshot(dbctx.Context{Ctx: ctx})
		if err != nil {
			p.log.Warn("Snapshot pass failed", "error", err)
			snapshotrun.Observe(p.metrics, "failed", nil, time.Since(start))
			return
		}
		snapshotrun.Observe(p.metrics, "succeeded", res, time.Since(start))
		p.log.Info("Snapshot pass committed",
			"cases_fetched", res.CasesFetched,
			"cases_deleted", res.CasesDeleted,
			"took", res.FinishedAt.Sub(res.StartedAt),
		)
		ok = true
	}()
	return ok
}
