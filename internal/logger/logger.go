// Package logger provides structured, context-aware logging backed by zap.
package logger

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a Logger emits.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// TraceIDFn extracts a trace identifier from a context.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is the logging contract shared by every module.
// The *c variants take an explicit caller skip for helpers that log on behalf of their caller.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	Debugc(ctx context.Context, caller int, msg string, args ...any)
	Infoc(ctx context.Context, caller int, msg string, args ...any)
	Warnc(ctx context.Context, caller int, msg string, args ...any)
	Errorc(ctx context.Context, caller int, msg string, args ...any)
}

var _ LoggerInterface = (*Logger)(nil)

// Logger writes JSON records through a zap core.
type Logger struct {
	z         *zap.Logger
	traceIDFn TraceIDFn
}

// New constructs a Logger writing to w. A nil traceIDFn falls back to the
// otel span context carried by ctx.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "msg"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(minLevel.zap()),
	)

	z := zap.New(core).With(zap.String("service", serviceName))

	if traceIDFn == nil {
		traceIDFn = otelTraceID
	}

	return &Logger{z: z, traceIDFn: traceIDFn}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop(), traceIDFn: otelTraceID}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.DebugLevel, 3, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.InfoLevel, 3, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.WarnLevel, 3, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, zapcore.ErrorLevel, 3, msg, args...)
}

func (l *Logger) Debugc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zapcore.DebugLevel, caller, msg, args...)
}

func (l *Logger) Infoc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zapcore.InfoLevel, caller, msg, args...)
}

func (l *Logger) Warnc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zapcore.WarnLevel, caller, msg, args...)
}

func (l *Logger) Errorc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, zapcore.ErrorLevel, caller, msg, args...)
}

func (l *Logger) write(ctx context.Context, level zapcore.Level, caller int, msg string, args ...any) {
	ce := l.z.Check(level, msg)
	if ce == nil {
		return
	}

	fields := make([]zap.Field, 0, len(args)/2+2)
	if _, file, line, ok := runtime.Caller(caller); ok {
		fields = append(fields, zap.String("file", fmt.Sprintf("%s:%d", file, line)))
	}
	if ctx != nil {
		if id := l.traceIDFn(ctx); id != "" {
			fields = append(fields, zap.String("trace_id", id))
		}
	}
	fields = append(fields, toFields(args)...)

	ce.Write(fields...)
}

// toFields pairs up alternating key/value arguments. A dangling key is kept
// under "!BADKEY" so nothing is silently dropped.
func toFields(args []any) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if i+1 >= len(args) {
			fields = append(fields, zap.Any("!BADKEY", args[i]))
			break
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}

func otelTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
