package tasksystem

import (
	"errors"
	"testing"
	"time"

	"github.com/Y-Gwork/go-task-system/core"
)

func quietConfig() *SystemConfig {
	logger := core.NewNoOpLogger()
	return &SystemConfig{
		Logger:       logger,
		PanicHandler: &core.DefaultPanicHandler{Logger: logger},
	}
}

// TestGlobalTaskSystem_Lifecycle verifies the global singleton helpers
// Given: An initialized global task system
// When: Work is submitted through the typed entry points
// Then: Futures resolve and shutdown tears the singleton down
func TestGlobalTaskSystem_Lifecycle(t *testing.T) {
	// Arrange
	InitGlobalTaskSystemWithConfig(2, quietConfig())
	defer ShutdownGlobalTaskSystem()

	sys := GetGlobalTaskSystem()

	// Act
	fut := PushReady1(sys, func(x int) (int, error) { return x * 2, nil }, 21)

	// Assert
	if v, err := fut.Get(); err != nil || v != 42 {
		t.Fatalf("Get() = (%d, %v), want (42, nil)", v, err)
	}
}

// TestGetGlobalTaskSystem_PanicsUninitialized verifies the guard
// Given: No initialized global task system
// When: GetGlobalTaskSystem is called
// Then: The call panics
func TestGetGlobalTaskSystem_PanicsUninitialized(t *testing.T) {
	// Arrange - make sure no global system is left over
	ShutdownGlobalTaskSystem()

	// Act and Assert
	defer func() {
		if recover() == nil {
			t.Fatal("GetGlobalTaskSystem without init should panic")
		}
	}()
	GetGlobalTaskSystem()
}

// TestPushAwaitable_Chaining verifies the dependency-chaining law
// Given: g(f(v)) submitted as a ready task feeding an awaitable task
// When: The outer future is read
// Then: The result equals g applied to f(v)
func TestPushAwaitable_Chaining(t *testing.T) {
	// Arrange
	s := core.NewTaskSystemWithConfig(2, quietConfig())
	defer s.Close()

	// Act
	inner := PushReady1(s, func(x int) (int, error) { return x + 1, nil }, 9)
	outer := PushAwaitable1(s, func(x int) (int, error) { return x * 10, nil }, inner)

	// Assert
	if v, err := outer.Get(); err != nil || v != 100 {
		t.Fatalf("Get() = (%d, %v), want (100, nil)", v, err)
	}
}

// TestPushAwaitable_MixedSlots verifies immediate and pending slots together
// Given: An awaitable task over one future slot and one Value slot
// When: The future is read
// Then: Both slots materialize positionally
func TestPushAwaitable_MixedSlots(t *testing.T) {
	// Arrange
	s := core.NewTaskSystemWithConfig(2, quietConfig())
	defer s.Close()

	// Act
	base := PushReady(s, func() (int, error) { return 30, nil })
	sum := PushAwaitable2(s, func(a, b int) (int, error) { return a + b, nil }, base, Value(12))

	// Assert
	if v, err := sum.Get(); err != nil || v != 42 {
		t.Fatalf("Get() = (%d, %v), want (42, nil)", v, err)
	}
}

// TestPushReadyOnMain_ZeroWorkers verifies main-thread routing
// Given: A zero-worker system
// When: Tasks are submitted on-main and via worker placement
// Then: Both route to the main queue and RunOnMain drains them
func TestPushReadyOnMain_ZeroWorkers(t *testing.T) {
	// Arrange
	s := core.NewTaskSystemWithConfig(0, quietConfig())
	defer s.Close()

	// Act
	f1 := PushReadyOnMain(s, func() (int, error) { return 1, nil })
	f2 := PushReady(s, func() (int, error) { return 2, nil })

	for i := 0; i < 2; i++ {
		if !s.RunOnMain() {
			t.Fatalf("RunOnMain call %d should execute a task", i)
		}
	}

	// Assert
	if v, err := f1.Get(); err != nil || v != 1 {
		t.Fatalf("on-main future = (%d, %v), want (1, nil)", v, err)
	}
	if v, err := f2.Get(); err != nil || v != 2 {
		t.Fatalf("delegated future = (%d, %v), want (2, nil)", v, err)
	}
}

// TestPushAwaitableOnMain_FromPromise verifies external result feeding
// Given: An awaitable main-thread task fed by a standalone promise
// When: The promise resolves and RunOnMain runs the task
// Then: The future yields the materialized result
func TestPushAwaitableOnMain_FromPromise(t *testing.T) {
	// Arrange
	s := core.NewTaskSystemWithConfig(0, quietConfig())
	defer s.Close()

	p, dep := NewPromise[string]()
	fut := PushAwaitableOnMain1(s, func(v string) (string, error) { return v + "!", nil }, dep)

	// Act
	p.Resolve("loaded")
	if !s.RunOnMain() {
		t.Fatal("RunOnMain should execute the awaitable task")
	}

	// Assert
	if v, err := fut.Get(); err != nil || v != "loaded!" {
		t.Fatalf("Get() = (%q, %v), want (loaded!, nil)", v, err)
	}
}

// TestPushReadyAfter verifies the delayed entry point
// Given: A callable submitted with a short delay
// When: The delay elapses
// Then: The future resolves with the callable's result
func TestPushReadyAfter(t *testing.T) {
	// Arrange
	s := core.NewTaskSystemWithConfig(1, quietConfig())
	defer s.Close()

	// Act
	start := time.Now()
	fut := PushReadyAfter(s, func() (int, error) { return 8, nil }, 30*time.Millisecond)

	// Assert
	v, err := fut.Get()
	if err != nil || v != 8 {
		t.Fatalf("Get() = (%d, %v), want (8, nil)", v, err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("task ran after %v, want at least the 30ms delay", elapsed)
	}
}

// TestPushReady_ErrorSurfaced verifies error flow through the façade
// Given: A callable that fails
// When: Its future is read
// Then: The error surfaces unchanged and the system keeps running
func TestPushReady_ErrorSurfaced(t *testing.T) {
	// Arrange
	s := core.NewTaskSystemWithConfig(2, quietConfig())
	defer s.Close()
	wantErr := errors.New("decode failed")

	// Act
	fut := PushReady(s, func() (int, error) { return 0, wantErr })

	// Assert
	if _, err := fut.Get(); !errors.Is(err, wantErr) {
		t.Fatalf("Get() error = %v, want %v", err, wantErr)
	}
}
