package core

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// TestDefaultLogger_LevelThreshold verifies level filtering
// Given: A DefaultLogger at the default LogInfo threshold
// When: Debug and Info messages are emitted
// Then: Only the Info message reaches the sink until the level is lowered
func TestDefaultLogger_LevelThreshold(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := NewDefaultLoggerTo(log.New(&buf, "", 0))

	// Act
	logger.Debug("dropped")
	logger.Info("kept")

	// Assert
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("debug message emitted below threshold: %q", out)
	}
	if !strings.Contains(out, `level=info msg="kept"`) {
		t.Fatalf("info message missing or misformatted: %q", out)
	}

	// Act - lower the threshold
	buf.Reset()
	logger.SetLevel(LogDebug)
	logger.Debug("now visible")

	// Assert
	if !strings.Contains(buf.String(), `level=debug msg="now visible"`) {
		t.Fatalf("debug message missing after SetLevel: %q", buf.String())
	}
}

// TestDefaultLogger_FieldFormatting verifies key=value rendering
// Given: A message with plain, spaced, and domain fields
// When: The message is emitted
// Then: Plain values render bare and values with spaces are quoted
func TestDefaultLogger_FieldFormatting(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := NewDefaultLoggerTo(log.New(&buf, "", 0))

	// Act
	logger.Warn("queue stalled",
		QueueF(0),
		WorkerF(MainWorkerID),
		F("depth", 7),
		F("reason", "head not ready"),
	)

	// Assert
	out := buf.String()
	for _, want := range []string{
		"level=warn",
		`msg="queue stalled"`,
		"queue=main",
		"worker=main",
		"depth=7",
		`reason="head not ready"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

// TestLogFieldHelpers verifies the domain field constructors
// Given: Worker, task, and queue identities
// When: The field helpers build Fields
// Then: Keys and rendered values match the scheduler's labeling
func TestLogFieldHelpers(t *testing.T) {
	// Arrange
	id := GenerateTaskID()

	// Act and Assert
	if f := WorkerF(3); f.Key != "worker" || f.Value != "3" {
		t.Fatalf("WorkerF(3) = %+v, want worker=3", f)
	}
	if f := WorkerF(MainWorkerID); f.Value != "main" {
		t.Fatalf("WorkerF(main) value = %v, want main", f.Value)
	}
	if f := TaskF(id); f.Key != "task" || f.Value != id.String() {
		t.Fatalf("TaskF = %+v, want the task's string ID", f)
	}
	if f := QueueF(2); f.Key != "queue" || f.Value != "2" {
		t.Fatalf("QueueF(2) = %+v, want queue=2", f)
	}
	if f := QueueF(0); f.Value != "main" {
		t.Fatalf("QueueF(0) value = %v, want main", f.Value)
	}
}
