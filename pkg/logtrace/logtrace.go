// Package logtrace provides the zap-backed structured logger used across
// the solver. Every log call takes a context; a correlation ID attached
// with CtxWithCorrelationID travels with the context and is stamped onto
// each line so one solve flow can be traced end to end.
package logtrace

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type correlationIDKey struct{}

var (
	mu     sync.RWMutex
	logger *zap.Logger = newDefaultLogger()
)

// Setup installs the global logger with the given service name,
// environment label and minimum level. Safe to call more than once;
// the last call wins.
func Setup(service, env string, level slog.Level) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zapLevel(level),
	)

	l := zap.New(core).With(
		zap.String("service", service),
		zap.String("env", env),
	)

	mu.Lock()
	logger = l
	mu.Unlock()
}

// CtxWithCorrelationID returns a context carrying the given correlation ID.
func CtxWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Debug logs a message at debug level with structured fields.
func Debug(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.DebugLevel, msg, fields)
}

// Info logs a message at info level with structured fields.
func Info(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.InfoLevel, msg, fields)
}

// Warn logs a message at warn level with structured fields.
func Warn(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.WarnLevel, msg, fields)
}

// Error logs a message at error level with structured fields.
func Error(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.ErrorLevel, msg, fields)
}

// Fatal logs a message at fatal level and exits.
func Fatal(ctx context.Context, msg string, fields Fields) {
	log(ctx, zapcore.FatalLevel, msg, fields)
}

func log(ctx context.Context, level zapcore.Level, msg string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	zapFields := make([]zap.Field, 0, len(fields)+1)
	if id := CorrelationIDFromContext(ctx); id != "" {
		zapFields = append(zapFields, zap.String(FieldCorrelationID, id))
	}
	for key, value := range fields {
		zapFields = append(zapFields, zap.Any(key, value))
	}

	if ce := l.Check(level, msg); ce != nil {
		ce.Write(zapFields...)
	}
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// newDefaultLogger backs log calls made before Setup, such as from tests.
func newDefaultLogger() *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zapcore.InfoLevel,
	)
	return zap.New(core)
}
