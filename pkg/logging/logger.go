package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type contextKey int

const (
	fieldsKey contextKey = iota
)

// ZapLogger wraps zap with request-scoped fields carried in the context,
// so handlers and background loops log the same correlation fields without
// threading a logger through every call.
type ZapLogger struct {
	logger *zap.Logger
}

// NewNop returns a logger that discards everything. Test use.
func NewNop() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func NewZapLogger(level zap.AtomicLevel) (*ZapLogger, error) {
	s := defaultSettings(level)
	logger, err := s.config.Build(s.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return &ZapLogger{logger: logger}, nil
}

// WithContextFields attaches fields to the context; they are appended to
// every *Ctx call made with a derived context.
func WithContextFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing := contextFields(ctx)
	combined := make([]zap.Field, 0, len(existing)+len(fields))
	combined = append(combined, existing...)
	combined = append(combined, fields...)
	return context.WithValue(ctx, fieldsKey, combined)
}

func contextFields(ctx context.Context) []zap.Field {
	fields, ok := ctx.Value(fieldsKey).([]zap.Field)
	if !ok {
		return nil
	}
	return fields
}

func (l *ZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Debug(msg, append(contextFields(ctx), fields...)...)
}

func (l *ZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Info(msg, append(contextFields(ctx), fields...)...)
}

func (l *ZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Warn(msg, append(contextFields(ctx), fields...)...)
}

func (l *ZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.logger.Error(msg, append(contextFields(ctx), fields...)...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync() //nolint:wrapcheck // unnecessary
}
