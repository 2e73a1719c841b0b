// Package tasksystem provides a multi-queue work-stealing task system for Go.
//
// The system schedules two classes of deferred computation across a fixed
// pool of worker goroutines plus the application's main thread. A ready
// task is immediately invokable; an awaitable task takes arguments where
// some or all are futures waiting on results of other tasks. A queue's
// blocking pop prefers tasks whose results are available; the
// non-blocking pops used for stealing and by RunOnMain take the head
// task as it is, and invoking a task waits for each pending result.
//
// # Quick Start
//
// Initialize the global task system at application startup:
//
//	tasksystem.InitGlobalTaskSystem(4) // 4 workers
//	defer tasksystem.ShutdownGlobalTaskSystem()
//
// Submit work and read results through futures:
//
//	sys := tasksystem.GetGlobalTaskSystem()
//	fut := tasksystem.PushReady1(sys, func(x int) (int, error) {
//		return x + 1, nil
//	}, 41)
//	v, err := fut.Get() // 42
//
// Chain dependent work by passing a future as an argument:
//
//	a := tasksystem.PushReady(sys, loadMesh)
//	b := tasksystem.PushAwaitable1(sys, uploadMesh, a)
//
// # Key Concepts
//
// Task: a type-erased deferred call owning its callable, its bound
// arguments, and the sending end of a one-shot result channel. Tasks are
// invoked exactly once.
//
// Readiness-aware dequeue: each queue prefers FIFO among tasks whose
// inputs are available; a task whose inputs are pending rotates to the
// tail so the queue does not stall on head-of-line dependencies.
//
// Work stealing: every worker polls its peers' queues non-blockingly
// before blocking on its own, so ready work is picked up even while some
// worker waits on a dependency.
//
// Main thread: queue 0 belongs to the application's main thread and is
// drained only by explicit RunOnMain calls, typically from a tick or
// frame loop:
//
//	for tasksystem.GetGlobalTaskSystem().RunOnMain() {
//	}
//
// # Observability
//
// The core accepts pluggable Logger, Metrics, and PanicHandler
// implementations via core.SystemConfig. The observability/prometheus
// package adapts Metrics and system stats to Prometheus collectors; the
// observability/zaplog package adapts Logger to go.uber.org/zap.
package tasksystem
