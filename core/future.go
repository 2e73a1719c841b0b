package core

import (
	"context"
	"sync/atomic"
)

// =============================================================================
// Future / Promise: one-shot result channel
// =============================================================================

// Future is the receiving end of a task's one-shot result channel. It is
// handed to the submitter when the task is constructed; the sending end
// stays inside the task and is written exactly once when the task runs.
//
// A Future also serves as an argument slot for awaitable tasks: Ready
// answers "is the value available yet?" without consuming it, and Get
// extracts the value by blocking.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Ready reports whether the result is available without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the result is available and returns the value produced
// by the task's callable, or the error it failed with. Get may be called
// any number of times; every call observes the same outcome.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// GetContext is Get with a context bound to the wait. If ctx expires first
// the zero value and ctx.Err() are returned; the task outcome is unchanged
// and a later Get still observes it.
func (f *Future[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// resolve and reject are the sending end. The owning task calls exactly one
// of them exactly once; the happens-before edge is the channel close.
func (f *Future[T]) resolve(v T) {
	f.value = v
	close(f.done)
}

func (f *Future[T]) reject(err error) {
	f.err = err
	close(f.done)
}

// =============================================================================
// Promise: explicit sending end for results produced outside a task
// =============================================================================

// Promise is a standalone sending end paired with a Future. The scheduler
// wires promises into tasks internally; NewPromise exposes the pair for
// callers that need to feed an awaitable task from an external source
// (an IO completion, a frame event) rather than from another task.
type Promise[T any] struct {
	fut *Future[T]
	set atomic.Bool
}

// NewPromise returns a connected Promise/Future pair.
func NewPromise[T any]() (*Promise[T], *Future[T]) {
	f := newFuture[T]()
	return &Promise[T]{fut: f}, f
}

// Resolve delivers the value. Panics with ErrResultAlreadySet if the
// result channel was already written.
func (p *Promise[T]) Resolve(v T) {
	if !p.set.CompareAndSwap(false, true) {
		panic(ErrResultAlreadySet)
	}
	p.fut.resolve(v)
}

// Reject delivers the error. Panics with ErrResultAlreadySet if the
// result channel was already written.
func (p *Promise[T]) Reject(err error) {
	if !p.set.CompareAndSwap(false, true) {
		panic(ErrResultAlreadySet)
	}
	p.fut.reject(err)
}

// =============================================================================
// Arg: heterogeneous argument slots
// =============================================================================

// Arg is one bound argument slot of an awaitable task: either an immediate
// value or a pending result produced by another task. *Future[T] satisfies
// Arg[T] directly, so submission sites pass futures and plain values
// (wrapped with Value) in the same argument list.
type Arg[T any] interface {
	// Ready reports whether Get would return without blocking.
	Ready() bool
	// Get materializes the slot, blocking if the backing result is pending.
	Get() (T, error)
}

// Value wraps an immediate value as an always-ready Arg slot.
func Value[T any](v T) Arg[T] {
	return valueArg[T]{v: v}
}

type valueArg[T any] struct {
	v T
}

func (a valueArg[T]) Ready() bool     { return true }
func (a valueArg[T]) Get() (T, error) { return a.v, nil }
