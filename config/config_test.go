package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/config"
	"github.com/domainkit/domainkit/mediator"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "domainkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_defaults(t *testing.T) {
	c, err := config.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "std", c.Logging.Backend)
	assert.Equal(t, "sequential", c.Mediator.Strategy)
	assert.False(t, c.Dispatch.MarkPublished)
	assert.Equal(t, 0, c.Dispatch.Retry.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, c.Dispatch.Retry.InitialInterval)
	assert.Equal(t, time.Second, c.Dispatch.Retry.MaxInterval)
	assert.Equal(t, 2.0, c.Dispatch.Retry.Multiplier)
	assert.NotEmpty(t, c.Database.DSN)
	assert.Equal(t, 1, c.Database.MaxOpenConns)
}

func TestLoad_file(t *testing.T) {
	path := writeFile(t, `
logging:
  backend: zap
  debug: true
mediator:
  strategy: parallel
  continue_on_error: true
dispatch:
  mark_published: true
  retry:
    max_retries: 3
    initial_interval: 10ms
database:
  dsn: file:orders.db
`)

	c, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "zap", c.Logging.Backend)
	assert.True(t, c.Logging.Debug)
	assert.Equal(t, "parallel", c.Mediator.Strategy)
	assert.True(t, c.Mediator.ContinueOnError)
	assert.True(t, c.Dispatch.MarkPublished)
	assert.Equal(t, 3, c.Dispatch.Retry.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, c.Dispatch.Retry.InitialInterval)
	assert.Equal(t, time.Second, c.Dispatch.Retry.MaxInterval, "default should be kept")
	assert.Equal(t, "file:orders.db", c.Database.DSN)
}

func TestLoad_env_overrides_file(t *testing.T) {
	path := writeFile(t, `
mediator:
  strategy: parallel
`)
	t.Setenv("DOMAINKITTEST_MEDIATOR_STRATEGY", "sequential")
	t.Setenv("DOMAINKITTEST_DISPATCH_RETRY_MAX_RETRIES", "5")
	t.Setenv("DOMAINKITTEST_DISPATCH_RETRY_MAX_INTERVAL", "2s")

	c, err := config.Load(path, "DOMAINKITTEST")
	require.NoError(t, err)

	assert.Equal(t, "sequential", c.Mediator.Strategy)
	assert.Equal(t, 5, c.Dispatch.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, c.Dispatch.Retry.MaxInterval)
}

func TestLoad_missing_file(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrConfigurationInvalid)
}

func TestLoad_invalid(t *testing.T) {
	path := writeFile(t, `
logging:
  backend: syslog
mediator:
  strategy: random
dispatch:
  retry:
    max_retries: -1
    multiplier: 0.5
database:
  dsn: ""
`)

	_, err := config.Load(path, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigurationInvalid)

	var validationErr *config.ValidationError
	require.True(t, errors.As(err, &validationErr))

	messages := validationErr.Messages()
	require.Len(t, messages, 5)
	assert.Contains(t, messages[0], "logging.backend")
	assert.Contains(t, messages[1], "mediator.strategy")
	assert.Contains(t, messages[2], "dispatch.retry.max_retries")
	assert.Contains(t, messages[3], "dispatch.retry.multiplier")
	assert.Contains(t, messages[4], "database.dsn")

	assert.Contains(t, err.Error(), "configuration invalid: ")
}

func TestValidate_retry_intervals(t *testing.T) {
	c, err := config.Load("", "")
	require.NoError(t, err)

	c.Dispatch.Retry.InitialInterval = time.Second
	c.Dispatch.Retry.MaxInterval = time.Millisecond

	err = c.Validate()
	require.Error(t, err)
	assert.Equal(t, []string{"dispatch.retry.max_interval: must not be lower than initial_interval"}, err.(*config.ValidationError).Messages())
}

func TestWriteYAML(t *testing.T) {
	v := config.NewViper("")
	v.Set("mediator.strategy", "parallel")

	buf := &bytes.Buffer{}
	require.NoError(t, config.WriteYAML(v, buf))

	path := writeFile(t, buf.String())
	c, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "parallel", c.Mediator.Strategy)
	assert.Equal(t, 100*time.Millisecond, c.Dispatch.Retry.InitialInterval)
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	testCases := []struct {
		Backend        string
		ExpectedOutput string
	}{
		{Backend: "std", ExpectedOutput: `msg="order placed"`},
		{Backend: "slog", ExpectedOutput: `msg="order placed"`},
		{Backend: "zap", ExpectedOutput: "order placed"},
		{Backend: "nop", ExpectedOutput: ""},
	}

	for _, c := range testCases {
		t.Run(c.Backend, func(t *testing.T) {
			buf := &bytes.Buffer{}

			logger, err := config.LoggingConfig{Backend: c.Backend}.NewLogger(buf)
			require.NoError(t, err)

			logger.Info("order placed", domainkit.LogFields{"order_id": "42"})
			logger.Debug("hidden", nil)

			if c.ExpectedOutput == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), c.ExpectedOutput)
			assert.Contains(t, buf.String(), "42")
			assert.NotContains(t, buf.String(), "hidden")
		})
	}
}

func TestLoggingConfig_NewLogger_unknown(t *testing.T) {
	_, err := config.LoggingConfig{Backend: "syslog"}.NewLogger(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestComponentConfigs(t *testing.T) {
	logger := domainkit.NewCaptureLogger()
	c := config.Config{
		Mediator: config.MediatorConfig{Strategy: "parallel", ContinueOnError: true},
		Dispatch: config.DispatchConfig{
			MarkPublished: true,
			Retry:         config.RetryConfig{MaxRetries: 2, InitialInterval: time.Millisecond, Multiplier: 3},
		},
		Database: config.DatabaseConfig{DSN: "file::memory:", MaxOpenConns: 4},
	}

	mediatorConfig := c.Mediator.MediatorConfig(logger)
	assert.Equal(t, mediator.ParallelStrategy, mediatorConfig.Strategy)
	assert.True(t, mediatorConfig.ContinueOnError)
	assert.Equal(t, logger, mediatorConfig.Logger)

	drainConfig := c.Dispatch.DrainConfig(logger)
	assert.True(t, drainConfig.MarkPublished)
	assert.Equal(t, 2, drainConfig.Retry.MaxRetries)
	assert.Equal(t, time.Millisecond, drainConfig.Retry.InitialInterval)
	assert.Equal(t, 3.0, drainConfig.Retry.Multiplier)

	dbConfig := c.Database.DBConfig(logger)
	assert.Equal(t, 4, dbConfig.MaxOpenConns)
}
