package prometheus

import (
	"context"
	"testing"
	"time"

	"github.com/Y-Gwork/go-task-system/core"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type systemStub struct {
	stats core.SystemStats
}

func (s systemStub) Stats() core.SystemStats { return s.stats }

func TestStatsPoller_CollectsSystemStats(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewStatsPoller(reg, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewStatsPoller failed: %v", err)
	}

	poller.AddSystem("render", systemStub{stats: core.SystemStats{
		Workers:     4,
		Queued:      6,
		QueueDepths: []int{1, 2, 3, 0, 0},
		Active:      2,
		Executed:    120,
		Stolen:      5,
		Rotations:   9,
		Done:        false,
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	assertEventually(t, 2*time.Second, func() bool {
		workers := testutil.ToFloat64(poller.systemWorkers.WithLabelValues("render"))
		queued := testutil.ToFloat64(poller.systemQueued.WithLabelValues("render"))
		return workers == 4 && queued == 6
	})

	if got := testutil.ToFloat64(poller.systemStolen.WithLabelValues("render")); got != 5 {
		t.Fatalf("stolen gauge = %v, want 5", got)
	}
	if got := testutil.ToFloat64(poller.systemDone.WithLabelValues("render")); got != 0 {
		t.Fatalf("done gauge = %v, want 0", got)
	}
	if got := testutil.ToFloat64(poller.queueDepth.WithLabelValues("render", "main")); got != 1 {
		t.Fatalf("main queue depth gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(poller.queueDepth.WithLabelValues("render", "2")); got != 3 {
		t.Fatalf("queue 2 depth gauge = %v, want 3", got)
	}
}

func TestStatsPoller_StartStop_Idempotent(t *testing.T) {
	reg := prom.NewRegistry()
	poller, err := NewStatsPoller(reg, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewStatsPoller failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller.Start(ctx)
	poller.Start(ctx)
	poller.Stop()
	poller.Stop()
}

func assertEventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
