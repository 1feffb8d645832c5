// Package logger provides structured logging on top of log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// Level is the minimum level a record must have to be emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// TraceIDFunc extracts a trace ID from the context for log correlation.
type TraceIDFunc func(ctx context.Context) string

// LoggerInterface is the logging contract used across the application.
// Methods take a context first so implementations can attach trace IDs.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// Logger implements LoggerInterface using slog with a text handler.
type Logger struct {
	handler *slog.Logger
	traceID TraceIDFunc
}

// New creates a Logger writing to w at the given minimum level.
// The service name is attached to every record. traceIDFn may be nil.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFunc) *Logger {
	var level slog.Level
	switch minLevel {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	if serviceName != "" {
		l = l.With("service", serviceName)
	}

	return &Logger{handler: l, traceID: traceIDFn}
}

// NewWithHandler wraps an existing slog.Logger.
func NewWithHandler(l *slog.Logger) *Logger {
	return &Logger{handler: l}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.handler.DebugContext(ctx, msg, l.withTrace(ctx, args)...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.handler.InfoContext(ctx, msg, l.withTrace(ctx, args)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.handler.WarnContext(ctx, msg, l.withTrace(ctx, args)...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.handler.ErrorContext(ctx, msg, l.withTrace(ctx, args)...)
}

// With returns a logger with additional attributes attached to every record.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{handler: l.handler.With(args...), traceID: l.traceID}
}

func (l *Logger) withTrace(ctx context.Context, args []any) []any {
	if l.traceID == nil {
		return args
	}
	if id := l.traceID(ctx); id != "" {
		return append(args, "traceId", id)
	}
	return args
}
