// Package log defines the logging contract for the embeddable solve
// SDK. Host applications can plug in their own logger; everything in
// the SDK logs through this interface and nothing else.
package log

import (
	"context"

	"go.uber.org/zap"

	"github.com/capforge/capsolve/pkg/logtrace"
)

// Logger accepts a message plus alternating key/value pairs.
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...interface{})
	Info(ctx context.Context, msg string, keysAndValues ...interface{})
	Warn(ctx context.Context, msg string, keysAndValues ...interface{})
	Error(ctx context.Context, msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

// NewNoopLogger returns a logger that discards everything. Used as the
// fallback when the host application provides no logger.
func NewNoopLogger() Logger { return noopLogger{} }

func (noopLogger) Debug(context.Context, string, ...interface{}) {}
func (noopLogger) Info(context.Context, string, ...interface{})  {}
func (noopLogger) Warn(context.Context, string, ...interface{})  {}
func (noopLogger) Error(context.Context, string, ...interface{}) {}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a zap-backed Logger. Development mode switches to
// the human-readable console encoder.
func NewZapLogger(development bool) (Logger, error) {
	var base *zap.Logger
	var err error
	if development {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	// Skip the adapter frame so call sites report correctly.
	return &zapLogger{sugar: base.WithOptions(zap.AddCallerSkip(1)).Sugar()}, nil
}

func (z *zapLogger) Debug(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.sugar.Debugw(msg, withCorrelation(ctx, keysAndValues)...)
}

func (z *zapLogger) Info(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.sugar.Infow(msg, withCorrelation(ctx, keysAndValues)...)
}

func (z *zapLogger) Warn(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.sugar.Warnw(msg, withCorrelation(ctx, keysAndValues)...)
}

func (z *zapLogger) Error(ctx context.Context, msg string, keysAndValues ...interface{}) {
	z.sugar.Errorw(msg, withCorrelation(ctx, keysAndValues)...)
}

// withCorrelation threads the request correlation ID, when present in
// the context, into the key/value list.
func withCorrelation(ctx context.Context, kvs []interface{}) []interface{} {
	if id := logtrace.CorrelationIDFromContext(ctx); id != "" {
		return append(kvs, logtrace.FieldCorrelationID, id)
	}
	return kvs
}
