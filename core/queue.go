package core

import (
	"container/list"
	"runtime"
	"sync"
	"sync/atomic"
)

// TaskQueue is a FIFO task container shared between one blocking consumer
// (the queue's owner) and any number of non-blocking producers and
// stealing consumers.
//
// Ordering is FIFO by insertion among ready tasks. The blocking Pop
// prefers a task whose inputs are already available; tasks that are not
// ready rotate to the tail so the queue does not stall on head-of-line
// dependencies. The done flag is sticky: once set, a blocking Pop on an
// empty queue returns the none sentinel instead of waiting.
type TaskQueue struct {
	mu        sync.Mutex
	cond      *sync.Cond
	tasks     list.List
	done      atomic.Bool
	rotations atomic.Uint64
}

// NewTaskQueue returns an empty, open queue.
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{}
	q.cond = sync.NewCond(&q.mu)
	q.tasks.Init()
	return q
}

// SetDone marks the queue as finished and wakes every blocked consumer.
// Pushing after SetDone still succeeds, but a drained done queue never
// blocks again. Idempotent.
func (q *TaskQueue) SetDone() {
	q.mu.Lock()
	q.done.Store(true)
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Done reports whether SetDone has been called.
func (q *TaskQueue) Done() bool {
	return q.done.Load()
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tasks.Len()
}

// Rotations returns the number of times a not-ready head has been rotated
// to the tail by Pop.
func (q *TaskQueue) Rotations() uint64 {
	return q.rotations.Load()
}

// TryPush enqueues the task without blocking. On contention it returns
// false and the caller's task is untouched; the caller may retry or fall
// back to Push. On success the queue takes ownership: the caller's Task is
// cleared and further operations on it panic with ErrBadTaskAccess.
func (q *TaskQueue) TryPush(t *Task) bool {
	if !q.mu.TryLock() {
		return false
	}
	q.tasks.PushBack(*t)
	*t = Task{}
	q.mu.Unlock()

	q.cond.Signal()
	return true
}

// Push enqueues the task, waiting for the mutex if necessary.
func (q *TaskQueue) Push(t Task) {
	q.mu.Lock()
	q.tasks.PushBack(t)
	q.mu.Unlock()

	q.cond.Signal()
}

// TryPop dequeues the head task without blocking and without a readiness
// check. Returns false on contention or when the queue is empty.
func (q *TaskQueue) TryPop() (Task, bool) {
	if !q.mu.TryLock() {
		return Task{}, false
	}
	defer q.mu.Unlock()

	front := q.tasks.Front()
	if front == nil {
		return Task{}, false
	}
	q.tasks.Remove(front)
	return front.Value.(Task), true
}

// Pop blocks until a task can be returned or the queue is done and empty.
//
// On wake with a non-empty queue it scans every task that was present on
// entry, in order: the first ready task found is removed and returned;
// each not-ready task rotates to the tail. If nothing present on entry was
// ready, the best it can do is pop the current head, release the lock, and
// yield until that task's inputs arrive — unlocking producers and stealing
// consumers for the duration of the wait.
func (q *TaskQueue) Pop() (Task, bool) {
	q.mu.Lock()
	for q.tasks.Len() == 0 && !q.done.Load() {
		q.cond.Wait()
	}
	if q.tasks.Len() == 0 {
		q.mu.Unlock()
		return Task{}, false
	}

	oldTail := q.tasks.Back()
	for {
		front := q.tasks.Front()
		t := front.Value.(Task)
		if t.Ready() {
			q.tasks.Remove(front)
			q.mu.Unlock()
			return t, true
		}
		q.rotations.Add(1)
		q.tasks.MoveToBack(front)
		if front == oldTail {
			// Every task present on entry has been checked once.
			break
		}
	}

	front := q.tasks.Front()
	t := front.Value.(Task)
	q.tasks.Remove(front)
	q.mu.Unlock()

	for !t.Ready() {
		runtime.Gosched()
	}
	return t, true
}
