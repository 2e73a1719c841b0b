package tasksystem

import (
	"sync"
	"time"

	"github.com/Y-Gwork/go-task-system/core"
)

// =============================================================================
// Typed submission
// =============================================================================
//
// Go methods cannot carry type parameters, so the typed entry points are
// free functions over a *TaskSystem. Each wraps the callable and its
// arguments into a task, routes it through the system, and returns the
// future for the result. On a zero-worker system every worker-placement
// submission routes to the main-thread queue.

// PushReady submits an immediately invokable callable.
func PushReady[R any](s *TaskSystem, f func() (R, error)) *Future[R] {
	t, fut := core.NewReadyTask(f)
	s.Push(t)
	return fut
}

// PushReady1 submits a one-argument callable with an immediate argument.
func PushReady1[A1, R any](s *TaskSystem, f func(A1) (R, error), a1 A1) *Future[R] {
	t, fut := core.NewReadyTask1(f, a1)
	s.Push(t)
	return fut
}

// PushReady2 submits a two-argument callable with immediate arguments.
func PushReady2[A1, A2, R any](s *TaskSystem, f func(A1, A2) (R, error), a1 A1, a2 A2) *Future[R] {
	t, fut := core.NewReadyTask2(f, a1, a2)
	s.Push(t)
	return fut
}

// PushReady3 submits a three-argument callable with immediate arguments.
func PushReady3[A1, A2, A3, R any](s *TaskSystem, f func(A1, A2, A3) (R, error), a1 A1, a2 A2, a3 A3) *Future[R] {
	t, fut := core.NewReadyTask3(f, a1, a2, a3)
	s.Push(t)
	return fut
}

// PushAwaitable1 submits a one-argument callable whose argument slot may
// be a pending result (*Future) or an immediate Value.
func PushAwaitable1[A1, R any](s *TaskSystem, f func(A1) (R, error), a1 Arg[A1]) *Future[R] {
	t, fut := core.NewAwaitableTask1(f, a1)
	s.Push(t)
	return fut
}

// PushAwaitable2 is PushAwaitable1 for two argument slots.
func PushAwaitable2[A1, A2, R any](s *TaskSystem, f func(A1, A2) (R, error), a1 Arg[A1], a2 Arg[A2]) *Future[R] {
	t, fut := core.NewAwaitableTask2(f, a1, a2)
	s.Push(t)
	return fut
}

// PushAwaitable3 is PushAwaitable1 for three argument slots.
func PushAwaitable3[A1, A2, A3, R any](s *TaskSystem, f func(A1, A2, A3) (R, error), a1 Arg[A1], a2 Arg[A2], a3 Arg[A3]) *Future[R] {
	t, fut := core.NewAwaitableTask3(f, a1, a2, a3)
	s.Push(t)
	return fut
}

// PushReadyOnMain submits an immediately invokable callable to the
// main-thread queue, to be executed by a RunOnMain call.
func PushReadyOnMain[R any](s *TaskSystem, f func() (R, error)) *Future[R] {
	t, fut := core.NewReadyTask(f)
	s.PushOnMain(t)
	return fut
}

// PushReadyOnMain1 is PushReadyOnMain with one immediate argument.
func PushReadyOnMain1[A1, R any](s *TaskSystem, f func(A1) (R, error), a1 A1) *Future[R] {
	t, fut := core.NewReadyTask1(f, a1)
	s.PushOnMain(t)
	return fut
}

// PushAwaitableOnMain1 submits an awaitable callable to the main-thread
// queue.
func PushAwaitableOnMain1[A1, R any](s *TaskSystem, f func(A1) (R, error), a1 Arg[A1]) *Future[R] {
	t, fut := core.NewAwaitableTask1(f, a1)
	s.PushOnMain(t)
	return fut
}

// PushAwaitableOnMain2 is PushAwaitableOnMain1 for two argument slots.
func PushAwaitableOnMain2[A1, A2, R any](s *TaskSystem, f func(A1, A2) (R, error), a1 Arg[A1], a2 Arg[A2]) *Future[R] {
	t, fut := core.NewAwaitableTask2(f, a1, a2)
	s.PushOnMain(t)
	return fut
}

// PushReadyAfter submits an immediately invokable callable whose placement
// is delayed by the given duration.
func PushReadyAfter[R any](s *TaskSystem, f func() (R, error), delay time.Duration) *Future[R] {
	t, fut := core.NewReadyTask(f)
	s.PushDelayed(t, delay)
	return fut
}

// =============================================================================
// Global Task System Helper (Singleton)
// =============================================================================

var (
	globalSystem *core.TaskSystem
	globalMu     sync.Mutex
)

// InitGlobalTaskSystem initializes the global task system with the
// specified number of workers. Workers start immediately. A negative
// count selects DefaultWorkerCount.
func InitGlobalTaskSystem(workers int) {
	InitGlobalTaskSystemWithConfig(workers, nil)
}

// InitGlobalTaskSystemWithConfig initializes the global task system with
// an explicit configuration.
func InitGlobalTaskSystemWithConfig(workers int, config *SystemConfig) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalSystem != nil {
		return // Already initialized
	}
	globalSystem = core.NewTaskSystemWithConfig(workers, config)
}

// GetGlobalTaskSystem returns the global task system instance.
// It panics if InitGlobalTaskSystem has not been called.
func GetGlobalTaskSystem() *TaskSystem {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalSystem == nil {
		panic("global task system not initialized. Call InitGlobalTaskSystem() first.")
	}
	return globalSystem
}

// ShutdownGlobalTaskSystem closes the global task system and joins its
// workers. Workers run the tasks already on their queues before exiting;
// tasks left on the main-thread queue are not run.
func ShutdownGlobalTaskSystem() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalSystem != nil {
		globalSystem.Close()
		globalSystem = nil
	}
}
