// Package zaplog adapts go.uber.org/zap to the core.Logger interface.
package zaplog

import (
	"github.com/Y-Gwork/go-task-system/core"
	"go.uber.org/zap"
)

// Logger adapts a *zap.Logger to core.Logger.
type Logger struct {
	z *zap.Logger
}

var _ core.Logger = (*Logger)(nil)

// New wraps an existing zap logger. A nil logger falls back to zap.NewNop.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// NewProduction builds a zap production logger and wraps it.
func NewProduction() (*Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) Debug(msg string, fields ...core.Field) {
	l.z.Debug(msg, convert(fields)...)
}

func (l *Logger) Info(msg string, fields ...core.Field) {
	l.z.Info(msg, convert(fields)...)
}

func (l *Logger) Warn(msg string, fields ...core.Field) {
	l.z.Warn(msg, convert(fields)...)
}

func (l *Logger) Error(msg string, fields ...core.Field) {
	l.z.Error(msg, convert(fields)...)
}

func convert(fields []core.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
