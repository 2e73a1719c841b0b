package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/Y-Gwork/go-task-system/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// SystemSnapshotProvider provides current system stats snapshots.
type SystemSnapshotProvider interface {
	Stats() core.SystemStats
}

// StatsPoller periodically exports system Stats() snapshots into
// Prometheus gauges.
type StatsPoller struct {
	interval time.Duration

	systemsMu sync.RWMutex
	systems   map[string]SystemSnapshotProvider

	systemWorkers   *prom.GaugeVec
	systemQueued    *prom.GaugeVec
	systemActive    *prom.GaugeVec
	systemExecuted  *prom.GaugeVec
	systemStolen    *prom.GaugeVec
	systemRotations *prom.GaugeVec
	systemDone      *prom.GaugeVec
	queueDepth      *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewStatsPoller creates a stats poller and registers its collectors.
func NewStatsPoller(reg prom.Registerer, interval time.Duration) (*StatsPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	systemWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_workers",
		Help:      "Worker count per system.",
	}, []string{"system"})
	systemQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_queued",
		Help:      "Tasks waiting across all queues per system.",
	}, []string{"system"})
	systemActive := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_active",
		Help:      "Tasks currently executing per system.",
	}, []string{"system"})
	systemExecuted := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_executed_total",
		Help:      "Executed task count snapshot.",
	}, []string{"system"})
	systemStolen := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_stolen_total",
		Help:      "Stolen task count snapshot.",
	}, []string{"system"})
	systemRotations := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_rotations_total",
		Help:      "Not-ready head rotation count snapshot.",
	}, []string{"system"})
	systemDone := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_done",
		Help:      "System done state (1=done, 0=running).",
	}, []string{"system"})
	queueDepth := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "tasksystem",
		Name:      "system_queue_depth",
		Help:      "Per-queue depth; queue main is the main-thread queue.",
	}, []string{"system", "queue"})

	var err error
	if systemWorkers, err = registerCollector(reg, systemWorkers); err != nil {
		return nil, err
	}
	if systemQueued, err = registerCollector(reg, systemQueued); err != nil {
		return nil, err
	}
	if systemActive, err = registerCollector(reg, systemActive); err != nil {
		return nil, err
	}
	if systemExecuted, err = registerCollector(reg, systemExecuted); err != nil {
		return nil, err
	}
	if systemStolen, err = registerCollector(reg, systemStolen); err != nil {
		return nil, err
	}
	if systemRotations, err = registerCollector(reg, systemRotations); err != nil {
		return nil, err
	}
	if systemDone, err = registerCollector(reg, systemDone); err != nil {
		return nil, err
	}
	if queueDepth, err = registerCollector(reg, queueDepth); err != nil {
		return nil, err
	}

	return &StatsPoller{
		interval:        interval,
		systems:         make(map[string]SystemSnapshotProvider),
		systemWorkers:   systemWorkers,
		systemQueued:    systemQueued,
		systemActive:    systemActive,
		systemExecuted:  systemExecuted,
		systemStolen:    systemStolen,
		systemRotations: systemRotations,
		systemDone:      systemDone,
		queueDepth:      queueDepth,
	}, nil
}

// AddSystem adds or replaces a system snapshot provider by name.
func (p *StatsPoller) AddSystem(name string, provider SystemSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	if name == "" {
		name = "system"
	}
	p.systemsMu.Lock()
	p.systems[name] = provider
	p.systemsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *StatsPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *StatsPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *StatsPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *StatsPoller) collectOnce() {
	p.systemsMu.RLock()
	defer p.systemsMu.RUnlock()

	for name, provider := range p.systems {
		stats := provider.Stats()
		p.systemWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		p.systemQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.systemActive.WithLabelValues(name).Set(float64(stats.Active))
		p.systemExecuted.WithLabelValues(name).Set(float64(stats.Executed))
		p.systemStolen.WithLabelValues(name).Set(float64(stats.Stolen))
		p.systemRotations.WithLabelValues(name).Set(float64(stats.Rotations))
		if stats.Done {
			p.systemDone.WithLabelValues(name).Set(1)
		} else {
			p.systemDone.WithLabelValues(name).Set(0)
		}
		for qi, depth := range stats.QueueDepths {
			p.queueDepth.WithLabelValues(name, queueLabel(qi)).Set(float64(depth))
		}
	}
}
