package config

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/mediator"
	"github.com/domainkit/domainkit/persistence/gormstore"
)

// NewLogger creates the configured logger writing to out.
func (c LoggingConfig) NewLogger(out io.Writer) (domainkit.LoggerAdapter, error) {
	switch c.Backend {
	case "std":
		return domainkit.NewStdLoggerWithOut(out, c.Debug, c.Trace), nil
	case "slog":
		level := slog.LevelInfo
		if c.Debug {
			level = slog.LevelDebug
		}
		if c.Trace {
			level = domainkit.LevelTrace
		}
		return domainkit.NewSlogLogger(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))), nil
	case "zap":
		level := zapcore.InfoLevel
		if c.Debug || c.Trace {
			level = zapcore.DebugLevel
		}
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(out),
			level,
		)
		return domainkit.NewZapLogger(zap.New(core)), nil
	case "nop":
		return domainkit.NopLogger{}, nil
	default:
		return nil, errors.Errorf("unknown logging backend %q", c.Backend)
	}
}

func parseStrategy(strategy string) (mediator.PublishStrategy, error) {
	switch strategy {
	case "sequential":
		return mediator.SequentialStrategy, nil
	case "parallel":
		return mediator.ParallelStrategy, nil
	default:
		return 0, errors.Errorf("mediator.strategy: unknown strategy %q, expected sequential or parallel", strategy)
	}
}

// MediatorConfig returns mediator.Config. The strategy must be valid, see Config.Validate.
func (c MediatorConfig) MediatorConfig(logger domainkit.LoggerAdapter) mediator.Config {
	strategy, _ := parseStrategy(c.Strategy)

	return mediator.Config{
		Strategy:        strategy,
		ContinueOnError: c.ContinueOnError,
		Logger:          logger,
	}
}

func (c DispatchConfig) DrainConfig(logger domainkit.LoggerAdapter) dispatch.DrainConfig {
	return dispatch.DrainConfig{
		MarkPublished: c.MarkPublished,
		Retry: dispatch.RetryConfig{
			MaxRetries:      c.Retry.MaxRetries,
			InitialInterval: c.Retry.InitialInterval,
			MaxInterval:     c.Retry.MaxInterval,
			Multiplier:      c.Retry.Multiplier,
		},
		Logger: logger,
	}
}

func (c DatabaseConfig) DBConfig(logger domainkit.LoggerAdapter) gormstore.DBConfig {
	return gormstore.DBConfig{
		MaxOpenConns: c.MaxOpenConns,
		Logger:       logger,
	}
}
