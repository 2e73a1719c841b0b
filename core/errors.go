package core

import (
	"errors"
	"fmt"
)

// ErrBadTaskAccess is the panic value raised by operations on an empty,
// moved-from, or already-invoked Task. This is a programmer error and is
// never recovered inside the scheduler.
var ErrBadTaskAccess = errors.New("bad task access")

// ErrResultAlreadySet is the panic value raised when a Promise is resolved
// or rejected more than once. The result channel is strictly one-shot.
var ErrResultAlreadySet = errors.New("task result already set")

// PanicError wraps a panic recovered from a task callable. It is delivered
// through the task's Future so the submitter observes the failure, and the
// original panic is re-raised for the executing worker's PanicHandler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}
