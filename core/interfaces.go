package core

import (
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task callable panics during execution.
// The panic has already been delivered to the task's future as a
// *PanicError by the time the handler runs; the handler exists for
// logging and crash-reporting strategies.
//
// Implementations must be safe for concurrent use.
type PanicHandler interface {
	// HandlePanic is called with the worker that executed the task
	// (MainWorkerID for the main thread), the recovered panic value,
	// and the stack trace at the time of panic.
	HandlePanic(worker int, taskID TaskID, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler logs panics through a Logger.
type DefaultPanicHandler struct {
	Logger Logger
}

// HandlePanic logs the panic with worker and task identity.
func (h *DefaultPanicHandler) HandlePanic(worker int, taskID TaskID, panicInfo any, stackTrace []byte) {
	logger := h.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	logger.Error("task panicked",
		WorkerF(worker),
		TaskF(taskID),
		F("panic", fmt.Sprintf("%v", panicInfo)),
		F("stack", string(stackTrace)),
	)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics collects task execution metrics. Implementations can forward to
// monitoring systems (Prometheus, StatsD, etc.).
//
// Methods must be non-blocking and fast; they run on worker hot paths.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute on the
	// given worker (MainWorkerID for the main thread).
	RecordTaskDuration(worker int, duration time.Duration)

	// RecordTaskPanic records that a task panicked on the given worker.
	RecordTaskPanic(worker int)

	// RecordTaskStolen records that the worker dequeued a task from a
	// queue other than its home queue.
	RecordTaskStolen(worker int, victimQueue int)

	// RecordQueueDepth records the depth of a queue after a submission
	// landed on it. Queue 0 is the main-thread queue.
	RecordQueueDepth(queue int, depth int)
}

// NilMetrics is the no-op default Metrics implementation.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskDuration(worker int, duration time.Duration) {}
func (m *NilMetrics) RecordTaskPanic(worker int)                            {}
func (m *NilMetrics) RecordTaskStolen(worker int, victimQueue int)          {}
func (m *NilMetrics) RecordQueueDepth(queue int, depth int)                 {}

// =============================================================================
// SystemConfig: Configuration for TaskSystem
// =============================================================================

// SystemConfig holds configuration for a TaskSystem. Zero-valued fields
// get defaults.
type SystemConfig struct {
	// Logger receives lifecycle and diagnostic messages. Defaults to
	// DefaultLogger.
	Logger Logger

	// Metrics receives execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// PanicHandler is called after a task panic has been delivered to the
	// task's future. Defaults to DefaultPanicHandler over Logger.
	PanicHandler PanicHandler

	// MainQueueSpin is the number of non-blocking pop/push attempts made
	// on the main-thread queue before falling back to a blocking call.
	// Defaults to 10.
	MainQueueSpin int

	// HistoryCapacity bounds the execution-history ring buffer.
	// Defaults to 100.
	HistoryCapacity int
}

// DefaultSystemConfig returns a config with all defaults applied.
func DefaultSystemConfig() *SystemConfig {
	logger := NewDefaultLogger()
	return &SystemConfig{
		Logger:          logger,
		Metrics:         &NilMetrics{},
		PanicHandler:    &DefaultPanicHandler{Logger: logger},
		MainQueueSpin:   defaultMainQueueSpin,
		HistoryCapacity: defaultHistoryCapacity,
	}
}
