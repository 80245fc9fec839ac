package domainkit

import (
	"go.uber.org/zap"
)

// ZapLoggerAdapter wraps [zap.Logger].
// zap has no trace level, so Trace is written on the debug level with a "trace" marker field.
type ZapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLogger creates an adapter for zap. A nil logger is substituted with a no-op logger.
func NewZapLogger(logger *zap.Logger) LoggerAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ZapLoggerAdapter{logger: logger}
}

func zapFields(fields LogFields) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		result = append(result, zap.Any(key, value))
	}

	return result
}

func (z *ZapLoggerAdapter) Error(msg string, err error, fields LogFields) {
	z.logger.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (z *ZapLoggerAdapter) Info(msg string, fields LogFields) {
	z.logger.Info(msg, zapFields(fields)...)
}

func (z *ZapLoggerAdapter) Debug(msg string, fields LogFields) {
	z.logger.Debug(msg, zapFields(fields)...)
}

func (z *ZapLoggerAdapter) Trace(msg string, fields LogFields) {
	z.logger.Debug(msg, append(zapFields(fields), zap.Bool("trace", true))...)
}

func (z *ZapLoggerAdapter) With(fields LogFields) LoggerAdapter {
	return &ZapLoggerAdapter{logger: z.logger.With(zapFields(fields)...)}
}
