// Package logger builds the zap logger used across the quiz backend.
package logger

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/David256/quizzed-backend/internal/config"
)

// New builds a JSON logger for production and a console logger otherwise.
// Verbose configurations log at debug level, everything else at info.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.With(zap.String("env", cfg.Env)), nil
}

// WithTrace returns l annotated with the trace and span ids of the span in ctx.
// l is returned unchanged when ctx carries no valid span.
func WithTrace(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// NewLogr adapts l to the logr interface
func NewLogr(l *zap.Logger) logr.Logger {
	return zapr.NewLogger(l)
}

// IntoContext stores l in ctx as a logr.Logger for code that logs through logr.FromContext
func IntoContext(ctx context.Context, l *zap.Logger) context.Context {
	return logr.NewContext(ctx, NewLogr(l))
}
