package core

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// LogLevel orders log severities for DefaultLogger's threshold filter.
type LogLevel int32

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	default:
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Logger receives the scheduler's lifecycle and diagnostic messages.
// Implementations can forward to a structured logging backend; the
// observability/zaplog package adapts go.uber.org/zap.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one key-value pair attached to a log message.
type Field struct {
	Key   string
	Value any
}

// F builds an ad-hoc Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// WorkerF identifies the executing worker in a log message. The main
// thread renders as "main".
func WorkerF(worker int) Field {
	return Field{Key: "worker", Value: workerLabel(worker)}
}

// TaskF identifies a task in a log message.
func TaskF(id TaskID) Field {
	return Field{Key: "task", Value: id.String()}
}

// QueueF identifies a queue in a log message. Queue 0 renders as "main".
func QueueF(queue int) Field {
	if queue == 0 {
		return Field{Key: "queue", Value: "main"}
	}
	return Field{Key: "queue", Value: strconv.Itoa(queue)}
}

// workerLabel renders a worker index for logs and panic reports.
func workerLabel(worker int) string {
	if worker == MainWorkerID {
		return "main"
	}
	return strconv.Itoa(worker)
}

// DefaultLogger writes level-filtered key=value lines through a standard
// *log.Logger. The constructors set the threshold to LogInfo, so Debug
// messages are dropped unless SetLevel lowers the bar.
type DefaultLogger struct {
	out *log.Logger
	min atomic.Int32
}

// NewDefaultLogger writes to stderr with timestamps at the LogInfo
// threshold.
func NewDefaultLogger() *DefaultLogger {
	return NewDefaultLoggerTo(log.New(os.Stderr, "", log.LstdFlags))
}

// NewDefaultLoggerTo wraps an existing *log.Logger.
func NewDefaultLoggerTo(out *log.Logger) *DefaultLogger {
	l := &DefaultLogger{out: out}
	l.min.Store(int32(LogInfo))
	return l
}

// SetLevel changes the minimum level that is emitted. Safe to call while
// the system is running.
func (l *DefaultLogger) SetLevel(min LogLevel) {
	l.min.Store(int32(min))
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) { l.emit(LogDebug, msg, fields) }
func (l *DefaultLogger) Info(msg string, fields ...Field)  { l.emit(LogInfo, msg, fields) }
func (l *DefaultLogger) Warn(msg string, fields ...Field)  { l.emit(LogWarn, msg, fields) }
func (l *DefaultLogger) Error(msg string, fields ...Field) { l.emit(LogError, msg, fields) }

func (l *DefaultLogger) emit(lvl LogLevel, msg string, fields []Field) {
	if int32(lvl) < l.min.Load() {
		return
	}

	var b strings.Builder
	b.WriteString("level=")
	b.WriteString(lvl.String())
	b.WriteString(" msg=")
	b.WriteString(strconv.Quote(msg))
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		writeValue(&b, f.Value)
	}
	l.out.Output(2, b.String())
}

// writeValue renders a field value, quoting anything that would break the
// key=value framing.
func writeValue(b *strings.Builder, v any) {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if strings.ContainsAny(s, " \t\n\"=") {
		s = strconv.Quote(s)
	}
	b.WriteString(s)
}

// NoOpLogger discards every message. Useful for tests and for systems
// that only report through Metrics.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (*NoOpLogger) Debug(string, ...Field) {}
func (*NoOpLogger) Info(string, ...Field)  {}
func (*NoOpLogger) Warn(string, ...Field)  {}
func (*NoOpLogger) Error(string, ...Field) {}
