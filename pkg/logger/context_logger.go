package logger

import (
	"context"
	"time"

	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogBuilder accumulates fields for one log record; context metadata is
// extracted automatically when the builder is created.
type LogBuilder struct {
	level   zapcore.Level
	message string
	fields  []zap.Field
}

func newBuilder(ctx context.Context, level zapcore.Level, message string) *LogBuilder {
	b := &LogBuilder{
		level:   level,
		message: message,
		fields:  make([]zap.Field, 0, 12),
	}
	b.extractContextFields(ctx)
	return b
}

func (b *LogBuilder) extractContextFields(ctx context.Context) {
	if ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		b.fields = append(b.fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(ctx); clientIP != "" {
		b.fields = append(b.fields, zap.String("client_ip", clientIP))
	}
	if userID, ok := ctxutil.GetUserID(ctx); ok {
		b.fields = append(b.fields, zap.Uint("user_id", userID))
	}
	if module := ctxutil.GetModule(ctx); module != "" {
		b.fields = append(b.fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(ctx); function != "" {
		b.fields = append(b.fields, zap.String("function", function))
	}
	if duration := ctxutil.GetDuration(ctx); duration > 0 {
		b.fields = append(b.fields, zap.Duration("elapsed", duration))
	}
}

// DebugWithContext starts a debug-level record enriched from ctx.
func DebugWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.DebugLevel, message)
}

// InfoWithContext starts an info-level record enriched from ctx.
func InfoWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.InfoLevel, message)
}

// WarnWithContext starts a warn-level record enriched from ctx.
func WarnWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.WarnLevel, message)
}

// ErrorWithContext starts an error-level record enriched from ctx.
func ErrorWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.ErrorLevel, message)
}

func (b *LogBuilder) String(key, value string) *LogBuilder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *LogBuilder) Int(key string, value int) *LogBuilder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *LogBuilder) Int64(key string, value int64) *LogBuilder {
	b.fields = append(b.fields, zap.Int64(key, value))
	return b
}

func (b *LogBuilder) Uint(key string, value uint) *LogBuilder {
	b.fields = append(b.fields, zap.Uint(key, value))
	return b
}

func (b *LogBuilder) Bool(key string, value bool) *LogBuilder {
	b.fields = append(b.fields, zap.Bool(key, value))
	return b
}

func (b *LogBuilder) Float64(key string, value float64) *LogBuilder {
	b.fields = append(b.fields, zap.Float64(key, value))
	return b
}

func (b *LogBuilder) Duration(value time.Duration) *LogBuilder {
	b.fields = append(b.fields, zap.Duration("duration", value))
	return b
}

func (b *LogBuilder) Err(err error) *LogBuilder {
	b.fields = append(b.fields, zap.Error(err))
	return b
}

func (b *LogBuilder) Any(key string, value any) *LogBuilder {
	b.fields = append(b.fields, zap.Any(key, value))
	return b
}

// Log writes the accumulated record.
func (b *LogBuilder) Log() {
	if Logger == nil {
		return
	}
	if ce := Logger.Check(b.level, b.message); ce != nil {
		ce.Write(b.fields...)
	}
}
