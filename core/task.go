package core

import (
	"runtime/debug"

	"github.com/google/uuid"
)

// =============================================================================
// TaskID
// =============================================================================

// TaskID identifies a task across the scheduler, execution history, and logs.
type TaskID struct {
	value uuid.UUID
}

// GenerateTaskID returns a new unique TaskID.
func GenerateTaskID() TaskID {
	return TaskID{value: uuid.New()}
}

// IsZero reports whether the ID is the zero TaskID.
func (id TaskID) IsZero() bool {
	return id.value == uuid.Nil
}

func (id TaskID) String() string {
	return id.value.String()
}

// =============================================================================
// Task: type-erased deferred call
// =============================================================================

// Task is a type-erased deferred call: a callable together with its bound
// arguments and the sending end of the one-shot result channel handed to
// the submitter at construction.
//
// There are two forms of Task: ready tasks and awaitable tasks.
//
// Ready tasks are immediately invokable; invoking the stored callable with
// the bound arguments will not block. Awaitable tasks take arguments where
// some or all are futures waiting on results of other tasks; invoking one
// materializes each pending slot before the callable runs.
//
// The distinction is visible only to the constructors; queues and the
// dispatcher see one opaque Task value. A Task is invokable exactly once.
// The zero Task is empty; Invoke on an empty or already-invoked Task and
// Ready on an empty Task panic with ErrBadTaskAccess. Ready on an
// already-invoked Task does not panic.
type Task struct {
	model taskModel
}

type taskModel interface {
	invoke()
	ready() bool
	id() TaskID
}

// Valid reports whether the task holds a callable.
func (t Task) Valid() bool {
	return t.model != nil
}

// ID returns the task's identifier, or the zero TaskID for an empty task.
func (t Task) ID() TaskID {
	if t.model == nil {
		return TaskID{}
	}
	return t.model.id()
}

// Invoke consumes the task: pending argument slots are materialized, the
// callable runs, and the result or error is delivered through the future
// issued at construction. Panics with ErrBadTaskAccess on an empty or
// already-invoked task.
func (t Task) Invoke() {
	if t.model == nil {
		panic(ErrBadTaskAccess)
	}
	t.model.invoke()
}

// Ready reports whether Invoke would make progress without waiting on any
// pending result. Constant true for ready tasks. Panics with
// ErrBadTaskAccess on an empty task.
func (t Task) Ready() bool {
	if t.model == nil {
		panic(ErrBadTaskAccess)
	}
	return t.model.ready()
}

// =============================================================================
// Concrete models
// =============================================================================

// readiness is the non-blocking probe every argument slot answers.
type readiness interface {
	Ready() bool
}

type readyTaskModel struct {
	taskID  TaskID
	run     func()
	invoked bool
}

func (m *readyTaskModel) invoke() {
	if m.invoked {
		panic(ErrBadTaskAccess)
	}
	m.invoked = true
	m.run()
}

func (m *readyTaskModel) ready() bool { return true }
func (m *readyTaskModel) id() TaskID  { return m.taskID }

type awaitableTaskModel struct {
	taskID  TaskID
	slots   []readiness
	run     func()
	invoked bool
}

func (m *awaitableTaskModel) invoke() {
	if m.invoked {
		panic(ErrBadTaskAccess)
	}
	m.invoked = true
	m.run()
}

func (m *awaitableTaskModel) ready() bool {
	for _, s := range m.slots {
		if !s.Ready() {
			return false
		}
	}
	return true
}

func (m *awaitableTaskModel) id() TaskID { return m.taskID }

// deliver binds a callable body to the task's future. A returned error and
// a recovered panic both reject the future; the panic is re-raised so the
// executing worker's PanicHandler observes it as well.
func deliver[R any](fut *Future[R], body func() (R, error)) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				fut.reject(&PanicError{Value: r, Stack: debug.Stack()})
				panic(r)
			}
		}()
		v, err := body()
		if err != nil {
			fut.reject(err)
			return
		}
		fut.resolve(v)
	}
}

// =============================================================================
// Ready task constructors
// =============================================================================

// NewReadyTask wraps a callable into a ready task and returns it with the
// future for its result. Arguments, if any, are bound by the closure.
func NewReadyTask[R any](f func() (R, error)) (Task, *Future[R]) {
	fut := newFuture[R]()
	m := &readyTaskModel{taskID: GenerateTaskID(), run: deliver(fut, f)}
	return Task{model: m}, fut
}

// NewReadyTask1 wraps a one-argument callable with an immediate argument.
func NewReadyTask1[A1, R any](f func(A1) (R, error), a1 A1) (Task, *Future[R]) {
	return NewReadyTask(func() (R, error) { return f(a1) })
}

// NewReadyTask2 wraps a two-argument callable with immediate arguments.
func NewReadyTask2[A1, A2, R any](f func(A1, A2) (R, error), a1 A1, a2 A2) (Task, *Future[R]) {
	return NewReadyTask(func() (R, error) { return f(a1, a2) })
}

// NewReadyTask3 wraps a three-argument callable with immediate arguments.
func NewReadyTask3[A1, A2, A3, R any](f func(A1, A2, A3) (R, error), a1 A1, a2 A2, a3 A3) (Task, *Future[R]) {
	return NewReadyTask(func() (R, error) { return f(a1, a2, a3) })
}

// =============================================================================
// Awaitable task constructors
// =============================================================================

// NewAwaitableTask1 wraps a one-argument callable whose argument slot may
// be a pending result (a *Future) or an immediate Value. The task reports
// ready once every pending slot has a result available; invoking it
// materializes the slots and applies the callable. A slot that resolved to
// an error fails the task with that error, unchanged.
func NewAwaitableTask1[A1, R any](f func(A1) (R, error), a1 Arg[A1]) (Task, *Future[R]) {
	fut := newFuture[R]()
	m := &awaitableTaskModel{
		taskID: GenerateTaskID(),
		slots:  []readiness{a1},
		run: deliver(fut, func() (R, error) {
			v1, err := a1.Get()
			if err != nil {
				var zero R
				return zero, err
			}
			return f(v1)
		}),
	}
	return Task{model: m}, fut
}

// NewAwaitableTask2 is NewAwaitableTask1 for two argument slots.
func NewAwaitableTask2[A1, A2, R any](f func(A1, A2) (R, error), a1 Arg[A1], a2 Arg[A2]) (Task, *Future[R]) {
	fut := newFuture[R]()
	m := &awaitableTaskModel{
		taskID: GenerateTaskID(),
		slots:  []readiness{a1, a2},
		run: deliver(fut, func() (R, error) {
			var zero R
			v1, err := a1.Get()
			if err != nil {
				return zero, err
			}
			v2, err := a2.Get()
			if err != nil {
				return zero, err
			}
			return f(v1, v2)
		}),
	}
	return Task{model: m}, fut
}

// NewAwaitableTask3 is NewAwaitableTask1 for three argument slots.
func NewAwaitableTask3[A1, A2, A3, R any](f func(A1, A2, A3) (R, error), a1 Arg[A1], a2 Arg[A2], a3 Arg[A3]) (Task, *Future[R]) {
	fut := newFuture[R]()
	m := &awaitableTaskModel{
		taskID: GenerateTaskID(),
		slots:  []readiness{a1, a2, a3},
		run: deliver(fut, func() (R, error) {
			var zero R
			v1, err := a1.Get()
			if err != nil {
				return zero, err
			}
			v2, err := a2.Get()
			if err != nil {
				return zero, err
			}
			v3, err := a3.Get()
			if err != nil {
				return zero, err
			}
			return f(v1, v2, v3)
		}),
	}
	return Task{model: m}, fut
}
