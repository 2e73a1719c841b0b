package tasksystem

import "github.com/Y-Gwork/go-task-system/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the tasksystem package for most use cases.

// Task is a type-erased deferred call: callable + bound arguments + result sink
type Task = core.Task

// TaskID identifies a task in history and logs
type TaskID = core.TaskID

// Future is the receiving end of a task's one-shot result channel
type Future[T any] = core.Future[T]

// Promise is the explicit sending end for results produced outside a task
type Promise[T any] = core.Promise[T]

// Arg is one bound argument slot of an awaitable task
type Arg[T any] = core.Arg[T]

// TaskSystem schedules tasks across worker goroutines plus the main thread
type TaskSystem = core.TaskSystem

// TaskQueue is the readiness-aware FIFO used by the system's queues
type TaskQueue = core.TaskQueue

// SystemConfig configures logging, metrics, panic handling, and tuning
type SystemConfig = core.SystemConfig

// SystemStats is a point-in-time snapshot of a task system
type SystemStats = core.SystemStats

// TaskExecutionRecord captures a completed task execution event
type TaskExecutionRecord = core.TaskExecutionRecord

// Logger is the structured logging interface used by the core
type Logger = core.Logger

// Metrics is the execution metrics interface used by the core
type Metrics = core.Metrics

// PanicHandler handles task panics after delivery to the task's future
type PanicHandler = core.PanicHandler

// PanicError wraps a panic recovered from a task callable
type PanicError = core.PanicError

// MainWorkerID labels main-thread executions in metrics and history
const MainWorkerID = core.MainWorkerID

// Sentinel errors
var (
	ErrBadTaskAccess    = core.ErrBadTaskAccess
	ErrResultAlreadySet = core.ErrResultAlreadySet
)

// Value wraps an immediate value as an always-ready argument slot.
func Value[T any](v T) Arg[T] {
	return core.Value(v)
}

// NewPromise returns a connected Promise/Future pair for feeding awaitable
// tasks from sources other than tasks (IO completions, frame events).
func NewPromise[T any]() (*Promise[T], *Future[T]) {
	return core.NewPromise[T]()
}

// DefaultWorkerCount is re-exported for callers sizing their own systems.
var DefaultWorkerCount = core.DefaultWorkerCount

// DefaultSystemConfig returns a config with all defaults applied.
var DefaultSystemConfig = core.DefaultSystemConfig
