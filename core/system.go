package core

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// MainWorkerID labels executions on the application's main thread in
	// metrics, history, and panic reports.
	MainWorkerID = -1

	defaultMainQueueSpin = 10

	// stealAttemptsPerWorker scales the non-blocking probe loops: a worker
	// (or the placement policy) makes 10*N try attempts before blocking.
	stealAttemptsPerWorker = 10
)

// TaskSystem schedules tasks across N worker goroutines plus the
// application's main thread.
//
// The system owns N+1 queues: index 0 is the main-thread queue, drained
// only by explicit RunOnMain calls; queue w+1 is the home queue of worker
// w. Submissions spread across worker queues round-robin with non-blocking
// placement; workers poll peer queues non-blockingly before blocking on
// their home queue, so a worker stuck waiting for a dependency does not
// strand ready work elsewhere.
type TaskSystem struct {
	queues   []*TaskQueue
	nworkers int
	counter  atomic.Uint64 // placement hint; races only add balancing noise

	wg      sync.WaitGroup
	running atomic.Bool

	logger       Logger
	metrics      Metrics
	panicHandler PanicHandler
	mainSpin     int

	history *executionHistory
	delay   *delayManager

	active   atomic.Int32
	executed atomic.Uint64
	stolen   atomic.Uint64
}

// DefaultWorkerCount returns the worker count used when none is given:
// one less than the number of CPUs, and at least one.
func DefaultWorkerCount() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// NewTaskSystem creates a system with nworkers worker goroutines and
// default configuration. A negative nworkers selects DefaultWorkerCount.
// With nworkers == 0 no workers are spawned: every submission routes to
// the main-thread queue and the caller is expected to drain it with
// RunOnMain.
func NewTaskSystem(nworkers int) *TaskSystem {
	return NewTaskSystemWithConfig(nworkers, DefaultSystemConfig())
}

// NewTaskSystemWithConfig creates a system with the given configuration.
// Nil or zero-valued config fields get defaults.
func NewTaskSystemWithConfig(nworkers int, config *SystemConfig) *TaskSystem {
	if nworkers < 0 {
		nworkers = DefaultWorkerCount()
	}
	if config == nil {
		config = DefaultSystemConfig()
	}

	s := &TaskSystem{
		nworkers: nworkers,
		mainSpin: config.MainQueueSpin,
	}
	if s.mainSpin <= 0 {
		s.mainSpin = defaultMainQueueSpin
	}
	s.logger = config.Logger
	if s.logger == nil {
		s.logger = NewDefaultLogger()
	}
	s.metrics = config.Metrics
	if s.metrics == nil {
		s.metrics = &NilMetrics{}
	}
	s.panicHandler = config.PanicHandler
	if s.panicHandler == nil {
		s.panicHandler = &DefaultPanicHandler{Logger: s.logger}
	}
	s.history = newExecutionHistory(config.HistoryCapacity)

	// +1 for the main thread's queue
	s.queues = make([]*TaskQueue, nworkers+1)
	for i := range s.queues {
		s.queues[i] = NewTaskQueue()
	}

	s.delay = newDelayManager(s.Push)
	s.running.Store(true)

	s.wg.Add(nworkers)
	for w := 0; w < nworkers; w++ {
		go s.run(w)
	}
	s.logger.Info("task system started", F("workers", nworkers))
	return s
}

// workerQueueIndex maps worker w's k-th probe to a queue index. k = 0 is
// the worker's home queue; successive k walk the peers.
func (s *TaskSystem) workerQueueIndex(w, k int) int {
	return (w+k)%s.nworkers + 1
}

// run is the worker loop for worker w.
func (s *TaskSystem) run(w int) {
	defer s.wg.Done()
	home := w + 1

	for {
		t, queue, ok := s.steal(w)
		if !ok {
			t, ok = s.queues[home].Pop()
			if !ok {
				// done and empty: the termination signal
				return
			}
			queue = home
		}
		s.execute(w, queue, t)
	}
}

// steal polls the worker queues non-blockingly, home queue first (the
// main-thread queue is never polled), and reports
// which queue the task came from.
func (s *TaskSystem) steal(w int) (Task, int, bool) {
	home := w + 1
	for k := 0; k < stealAttemptsPerWorker*s.nworkers; k++ {
		qi := s.workerQueueIndex(w, k)
		if t, ok := s.queues[qi].TryPop(); ok {
			if qi != home {
				s.stolen.Add(1)
				s.metrics.RecordTaskStolen(w, qi)
			}
			return t, qi, true
		}
	}
	return Task{}, 0, false
}

// execute invokes one task with panic recovery, metrics, and history.
// A callable that fails with an error has still completed successfully
// from the worker's point of view; the error lives in the task's future.
func (s *TaskSystem) execute(worker, queue int, t Task) {
	s.active.Add(1)
	id := t.ID()
	start := time.Now()
	panicked := false

	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				s.metrics.RecordTaskPanic(worker)
				s.panicHandler.HandlePanic(worker, id, r, debug.Stack())
			}
		}()
		t.Invoke()
	}()

	finished := time.Now()
	s.active.Add(-1)
	s.executed.Add(1)
	s.metrics.RecordTaskDuration(worker, finished.Sub(start))
	s.history.Add(TaskExecutionRecord{
		TaskID:     id,
		Worker:     worker,
		Queue:      queue,
		StartedAt:  start,
		FinishedAt: finished,
		Duration:   finished.Sub(start),
		Panicked:   panicked,
	})
}

// Push enqueues an already-constructed task through the worker placement
// policy: 10*N non-blocking attempts spread round-robin across the worker
// queues, then a blocking push on the round-robin home. With zero workers
// the task routes to the main-thread queue.
//
// No result handle is returned; the submitter retains the future issued
// when the task was constructed.
func (s *TaskSystem) Push(t Task) {
	if s.nworkers == 0 {
		s.PushOnMain(t)
		return
	}

	n := uint64(s.nworkers)
	c := s.counter.Add(1) - 1
	for k := uint64(0); k < stealAttemptsPerWorker*n; k++ {
		qi := int((c+k)%n) + 1
		if s.queues[qi].TryPush(&t) {
			s.metrics.RecordQueueDepth(qi, s.queues[qi].Len())
			return
		}
	}

	qi := int(c%n) + 1
	s.queues[qi].Push(t)
	s.metrics.RecordQueueDepth(qi, s.queues[qi].Len())
}

// PushOnMain enqueues an already-constructed task on the main-thread
// queue, to be executed by a RunOnMain call.
func (s *TaskSystem) PushOnMain(t Task) {
	for k := 0; k < s.mainSpin; k++ {
		if s.queues[0].TryPush(&t) {
			s.metrics.RecordQueueDepth(0, s.queues[0].Len())
			return
		}
	}
	s.queues[0].Push(t)
	s.metrics.RecordQueueDepth(0, s.queues[0].Len())
}

// PushDelayed parks the task until delay has elapsed, then submits it
// through the worker placement policy.
func (s *TaskSystem) PushDelayed(t Task, delay time.Duration) {
	if delay <= 0 {
		s.Push(t)
		return
	}
	s.delay.add(t, delay)
}

// RunOnMain processes one task from the main-thread queue on the calling
// goroutine. It makes MainQueueSpin non-blocking attempts, then blocks
// until a task arrives or the queue is done. Returns whether a task ran.
// Non-reentrant; typically called from an application tick/frame loop.
func (s *TaskSystem) RunOnMain() bool {
	var t Task
	var ok bool
	for k := 0; k < s.mainSpin; k++ {
		if t, ok = s.queues[0].TryPop(); ok {
			break
		}
	}
	if !ok {
		if t, ok = s.queues[0].Pop(); !ok {
			return false
		}
	}
	s.execute(MainWorkerID, 0, t)
	return true
}

// Done marks every queue as done, waking blocked workers. Idempotent.
// Submissions after Done still enqueue; a task that lands on a queue whose
// worker has already exited, or on the main-thread queue with no further
// RunOnMain call, is never run.
func (s *TaskSystem) Done() {
	s.delay.stop()
	for _, q := range s.queues {
		q.SetDone()
	}
	if s.running.CompareAndSwap(true, false) {
		s.logger.Info("task system done", F("workers", s.nworkers))
	}
}

// Close marks the system done and joins every worker. A worker exits only
// once its home queue is empty, so tasks already on the worker queues run
// before Close returns; tasks left on the main-thread queue are not run.
func (s *TaskSystem) Close() {
	s.Done()
	s.wg.Wait()
}

// ShutdownGraceful waits for queued and active work to drain before
// closing. Returns an error if the timeout is exceeded; the system is
// closed either way.
func (s *TaskSystem) ShutdownGraceful(timeout time.Duration) error {
	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.Close()
			return fmt.Errorf("graceful shutdown timeout after %v", timeout)
		case <-ticker.C:
			if s.QueuedTaskCount() == 0 && s.ActiveTaskCount() == 0 && s.DelayedTaskCount() == 0 {
				s.Close()
				return nil
			}
		}
	}
}

// WorkerCount returns the number of worker goroutines.
func (s *TaskSystem) WorkerCount() int {
	return s.nworkers
}

// QueuedTaskCount returns the number of tasks waiting across all queues.
func (s *TaskSystem) QueuedTaskCount() int {
	total := 0
	for _, q := range s.queues {
		total += q.Len()
	}
	return total
}

// ActiveTaskCount returns the number of tasks currently executing.
func (s *TaskSystem) ActiveTaskCount() int {
	return int(s.active.Load())
}

// DelayedTaskCount returns the number of tasks parked for later submission.
func (s *TaskSystem) DelayedTaskCount() int {
	return s.delay.taskCount()
}

// Stats returns a point-in-time snapshot of the system.
func (s *TaskSystem) Stats() SystemStats {
	depths := make([]int, len(s.queues))
	queued := 0
	var rotations uint64
	for i, q := range s.queues {
		depths[i] = q.Len()
		queued += depths[i]
		rotations += q.Rotations()
	}
	return SystemStats{
		Workers:     s.nworkers,
		Queued:      queued,
		QueueDepths: depths,
		Active:      int(s.active.Load()),
		Executed:    s.executed.Load(),
		Stolen:      s.stolen.Load(),
		Rotations:   rotations,
		Done:        !s.running.Load(),
	}
}

// RecentExecutions returns up to limit execution records, newest first.
func (s *TaskSystem) RecentExecutions(limit int) []TaskExecutionRecord {
	return s.history.Recent(limit)
}
