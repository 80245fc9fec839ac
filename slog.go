package domainkit

import (
	"context"
	"log/slog"
)

// LevelTrace is one step below slog.LevelDebug, following the spacing of slog.LevelWarn and slog.LevelError.
const LevelTrace = slog.LevelDebug - 4

func slogAttrsFromFields(fields LogFields) []any {
	result := make([]any, 0, len(fields)*2)

	for key, value := range fields {
		result = append(result, key, value)
	}

	return result
}

// SlogLoggerAdapter wraps [slog.Logger].
type SlogLoggerAdapter struct {
	slog *slog.Logger

	levelMapping map[slog.Level]slog.Level
}

// Error logs a message to [slog.LevelError].
func (s *SlogLoggerAdapter) Error(msg string, err error, fields LogFields) {
	s.log(slog.LevelError, msg, append(slogAttrsFromFields(fields), "error", err)...)
}

// Info logs a message to [slog.LevelInfo].
func (s *SlogLoggerAdapter) Info(msg string, fields LogFields) {
	s.log(slog.LevelInfo, msg, slogAttrsFromFields(fields)...)
}

// Debug logs a message to [slog.LevelDebug].
func (s *SlogLoggerAdapter) Debug(msg string, fields LogFields) {
	s.log(slog.LevelDebug, msg, slogAttrsFromFields(fields)...)
}

// Trace logs a message to [LevelTrace].
func (s *SlogLoggerAdapter) Trace(msg string, fields LogFields) {
	s.log(LevelTrace, msg, slogAttrsFromFields(fields)...)
}

func (s *SlogLoggerAdapter) log(level slog.Level, msg string, args ...any) {
	if mappedLevel, ok := s.levelMapping[level]; ok {
		level = mappedLevel
	}

	// slog ignores the deadline of the context, only contextual values matter here.
	s.slog.Log(context.Background(), level, msg, args...)
}

// With returns a [SlogLoggerAdapter] with fields injected into all consequent logging messages.
func (s *SlogLoggerAdapter) With(fields LogFields) LoggerAdapter {
	return &SlogLoggerAdapter{
		slog:         s.slog.With(slogAttrsFromFields(fields)...),
		levelMapping: s.levelMapping,
	}
}

// NewSlogLogger creates an adapter to the standard library's structured logging package.
// A nil logger is substituted with [slog.Default].
func NewSlogLogger(logger *slog.Logger) LoggerAdapter {
	return NewSlogLoggerWithLevelMapping(logger, nil)
}

// NewSlogLoggerWithLevelMapping works like NewSlogLogger, but remaps levels before logging.
// It's helpful when, for example, dispatch info logs should be written as debug.
func NewSlogLoggerWithLevelMapping(logger *slog.Logger, levelMapping map[slog.Level]slog.Level) LoggerAdapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogLoggerAdapter{
		slog:         logger,
		levelMapping: levelMapping,
	}
}
