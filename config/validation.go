package config

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrConfigurationInvalid is matched by every *ValidationError.
var ErrConfigurationInvalid = errors.New("configuration invalid")

// ValidationError holds all problems found in the configuration.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		messages = append(messages, p.Error())
	}
	return messages
}

func (e *ValidationError) Error() string {
	return ErrConfigurationInvalid.Error() + ": " + strings.Join(e.Messages(), "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrConfigurationInvalid
}

// Validate returns *ValidationError listing every problem, or nil.
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.Logging.Backend {
	case "std", "slog", "zap", "nop":
	default:
		result = multierror.Append(result, errors.Errorf("logging.backend: unknown backend %q, expected std, slog, zap or nop", c.Logging.Backend))
	}

	if _, err := parseStrategy(c.Mediator.Strategy); err != nil {
		result = multierror.Append(result, err)
	}

	r := c.Dispatch.Retry
	if r.MaxRetries < 0 {
		result = multierror.Append(result, errors.New("dispatch.retry.max_retries: must not be negative"))
	}
	if r.InitialInterval < 0 || r.MaxInterval < 0 {
		result = multierror.Append(result, errors.New("dispatch.retry: intervals must not be negative"))
	}
	if r.MaxInterval > 0 && r.MaxInterval < r.InitialInterval {
		result = multierror.Append(result, errors.New("dispatch.retry.max_interval: must not be lower than initial_interval"))
	}
	if r.Multiplier != 0 && r.Multiplier < 1 {
		result = multierror.Append(result, errors.New("dispatch.retry.multiplier: must be at least 1"))
	}

	if c.Database.DSN == "" {
		result = multierror.Append(result, errors.New("database.dsn: must not be empty"))
	}
	if c.Database.MaxOpenConns < 0 {
		result = multierror.Append(result, errors.New("database.max_open_conns: must not be negative"))
	}

	if result == nil {
		return nil
	}

	return &ValidationError{Problems: result.Errors}
}
