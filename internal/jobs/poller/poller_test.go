package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/appealsync-backend/internal/modules/casesync"
	"github.com/yungbote/appealsync-backend/internal/pkg/dbctx"
	"github.com/yungbote/appealsync-backend/internal/platform/logger"
)

type fakeEngine struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
	panic bool
}

func (f *fakeEngine) ReconcileSnapshot(dbctx.Context) (*casesync.SnapshotResult, error) {
	f.mu.Lock()
	f.calls++
	block, err, shouldPanic := f.block, f.err, f.panic
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if shouldPanic {
		panic("boom")
	}
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &casesync.SnapshotResult{StartedAt: now, FinishedAt: now, CasesFetched: 2}, nil
}

func (f *fakeEngine) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type statuses struct {
	mu  sync.Mutex
	got []string
}

func (s *statuses) ObserveSnapshot(status string, fetched, _ int, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, fmt.Sprintf("%s:%d", status, fetched))
}

func TestRunOnce(t *testing.T) {
	eng := &fakeEngine{}
	obs := &statuses{}
	p, err := New(logger.NewNop(), eng, time.Minute, obs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !p.RunOnce(context.Background()) {
		t.Fatalf("expected successful pass")
	}

	eng.err = errors.New("fetch failed")
	if p.RunOnce(context.Background()) {
		t.Fatalf("expected failed pass")
	}

	eng.err = nil
	eng.panic = true
	if p.RunOnce(context.Background()) {
		t.Fatalf("expected panicking pass to report failure")
	}
	if eng.count() != 3 {
		t.Fatalf("calls=%d want 3", eng.count())
	}
	want := []string{"succeeded:2", "failed:0", "panic:0"}
	if fmt.Sprint(obs.got) != fmt.Sprint(want) {
		t.Fatalf("observed=%v want %v", obs.got, want)
	}
}

func TestRunOnceSkipsOverlap(t *testing.T) {
	eng := &fakeEngine{block: make(chan struct{})}
	p, _ := New(logger.NewNop(), eng, time.Minute, nil)

	done := make(chan bool, 1)
	go func() { done <- p.RunOnce(context.Background()) }()
	for eng.count() == 0 {
		time.Sleep(time.Millisecond)
	}
	if p.RunOnce(context.Background()) {
		t.Fatalf("overlapping pass should be skipped")
	}
	close(eng.block)
	if !<-done {
		t.Fatalf("first pass should succeed")
	}
	if eng.count() != 1 {
		t.Fatalf("calls=%d want 1", eng.count())
	}
}

func TestStartTicks(t *testing.T) {
	eng := &fakeEngine{}
	p, _ := New(logger.NewNop(), eng, 10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	deadline := time.Now().Add(2 * time.Second)
	for eng.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if eng.count() < 2 {
		t.Fatalf("calls=%d want at least 2", eng.count())
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(logger.NewNop(), nil, time.Minute, nil); err == nil {
		t.Fatalf("expected error for nil engine")
	}
	if _, err := New(logger.NewNop(), &fakeEngine{}, 0, nil); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
