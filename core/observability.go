package core

import (
	"sync"
	"time"
)

const defaultHistoryCapacity = 100

// TaskExecutionRecord captures a completed task execution event.
type TaskExecutionRecord struct {
	TaskID     TaskID
	Worker     int // MainWorkerID when the task ran on the main thread
	Queue      int // queue index the task was dequeued from
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Panicked   bool
}

// SystemStats represents runtime observability state for a task system.
type SystemStats struct {
	Workers     int
	Queued      int   // tasks waiting across all queues
	QueueDepths []int // per-queue depth; index 0 is the main-thread queue
	Active      int   // tasks currently executing
	Executed    uint64
	Stolen      uint64
	Rotations   uint64 // not-ready head rotations across all queues
	Done        bool
}

// executionHistory keeps the most recent executions in a fixed slice.
// A monotonic write counter doubles as the position bookkeeping: record
// number n lives at slot n mod cap, so the population is min(next, cap)
// and the newest record sits at slot (next-1) mod cap.
type executionHistory struct {
	mu   sync.Mutex
	ring []TaskExecutionRecord
	next uint64 // total records ever added
}

func newExecutionHistory(capacity int) *executionHistory {
	if capacity < 1 {
		capacity = defaultHistoryCapacity
	}
	return &executionHistory{ring: make([]TaskExecutionRecord, capacity)}
}

func (h *executionHistory) Add(record TaskExecutionRecord) {
	h.mu.Lock()
	h.ring[h.next%uint64(len(h.ring))] = record
	h.next++
	h.mu.Unlock()
}

// Recent returns up to limit records, newest first. limit <= 0 means all.
func (h *executionHistory) Recent(limit int) []TaskExecutionRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	population := h.next
	if capacity := uint64(len(h.ring)); population > capacity {
		population = capacity
	}
	if limit <= 0 || uint64(limit) > population {
		limit = int(population)
	}
	if limit == 0 {
		return nil
	}

	out := make([]TaskExecutionRecord, limit)
	for i := range out {
		out[i] = h.ring[(h.next-1-uint64(i))%uint64(len(h.ring))]
	}
	return out
}
