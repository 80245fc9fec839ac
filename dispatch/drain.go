package dispatch

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/internal"
)

// RetryConfig configures retrying of a single event publication with exponential backoff.
// Retrying is disabled when MaxRetries is 0.
type RetryConfig struct {
	// MaxRetries is maximum number of times a retry will be attempted.
	MaxRetries int

	// InitialInterval is the first interval between retries. Subsequent intervals will be scaled by Multiplier.
	InitialInterval time.Duration
	// MaxInterval sets the limit for the exponential backoff of retries.
	MaxInterval time.Duration
	// Multiplier is the factor by which the waiting interval will be multiplied between retries.
	Multiplier float64
	// MaxElapsedTime sets the time limit of how long retries will be attempted. Disabled if 0.
	MaxElapsedTime time.Duration
	// RandomizationFactor randomizes the spread of the backoff times within the interval of:
	// [currentInterval * (1 - randomization_factor), currentInterval * (1 + randomization_factor)].
	RandomizationFactor float64

	// OnRetryHook is an optional function that will be executed on each retry attempt.
	OnRetryHook func(retryNum int, delay time.Duration)
}

func (c *RetryConfig) setDefaults() {
	if c.InitialInterval == 0 {
		c.InitialInterval = backoff.DefaultInitialInterval
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = backoff.DefaultMaxInterval
	}
	if c.Multiplier == 0 {
		c.Multiplier = backoff.DefaultMultiplier
	}
}

func (c RetryConfig) Validate() error {
	var err error

	if c.MaxRetries < 0 {
		err = stdErrors.Join(err, errors.New("MaxRetries must not be negative"))
	}
	if c.InitialInterval < 0 || c.MaxInterval < 0 || c.MaxElapsedTime < 0 {
		err = stdErrors.Join(err, errors.New("intervals must not be negative"))
	}
	if c.MaxInterval > 0 && c.MaxInterval < c.InitialInterval {
		err = stdErrors.Join(err, errors.New("MaxInterval must not be lower than InitialInterval"))
	}
	if c.Multiplier != 0 && c.Multiplier < 1 {
		err = stdErrors.Join(err, errors.New("Multiplier must be at least 1"))
	}
	if c.RandomizationFactor < 0 || c.RandomizationFactor > 1 {
		err = stdErrors.Join(err, errors.New("RandomizationFactor must be between 0 and 1"))
	}

	return err
}

type DrainConfig struct {
	// MarkPublished marks every successfully published event with domain.MarkPublished.
	// Events already marked as published are skipped by Drain, so a drain interrupted by a failure
	// doesn't publish the delivered events again.
	MarkPublished bool

	Retry RetryConfig

	// Logger instance used to log.
	// If not provided, domainkit.NopLogger is used.
	Logger domainkit.LoggerAdapter
}

func (c *DrainConfig) setDefaults() {
	if c.Logger == nil {
		c.Logger = domainkit.NopLogger{}
	}
	if c.Retry.MaxRetries > 0 {
		c.Retry.setDefaults()
	}
}

func (c DrainConfig) Validate() error {
	return c.Retry.Validate()
}

// Drainer publishes the events buffered by an aggregate and clears the buffer.
type Drainer struct {
	publisher Publisher
	config    DrainConfig
	logger    domainkit.LoggerAdapter
}

func NewDrainer(publisher Publisher, config DrainConfig) (*Drainer, error) {
	if publisher == nil {
		return nil, errors.New("missing publisher")
	}

	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Drainer{
		publisher: publisher,
		config:    config,
		logger:    config.Logger,
	}, nil
}

// Drain publishes the events of source in the order they were raised.
//
// It stops at the first event which couldn't be published and leaves the buffer intact.
// The buffer is cleared only when all events were published.
func (d *Drainer) Drain(ctx context.Context, source domain.EventSource) error {
	events := source.DomainEvents()
	if len(events) == 0 {
		return nil
	}

	logger := d.logger.With(domainkit.LogFields{
		"drain_id":     domainkit.NewULID(),
		"events_count": len(events),
	})
	logger.Debug("Draining domain events", nil)

	for i, event := range events {
		fields := domainkit.LogFields{
			"event_type": EventName(event),
			"event_no":   i + 1,
		}

		if !internal.IsNil(event) && event.IsPublished() {
			logger.Trace("Skipping already published event", fields)
			continue
		}

		if err := d.publish(ctx, event, logger.With(fields)); err != nil {
			logger.Error("Cannot publish domain event, events are kept", err, fields)
			return errors.Wrapf(err, "cannot publish event %d of %d (%s)", i+1, len(events), EventName(event))
		}

		if d.config.MarkPublished {
			domain.MarkPublished(event)
		}
	}

	source.ClearDomainEvents()
	logger.Debug("Domain events drained", nil)

	return nil
}

func (d *Drainer) publish(ctx context.Context, event domain.Event, logger domainkit.LoggerAdapter) error {
	if d.config.Retry.MaxRetries == 0 {
		return d.publisher.Publish(ctx, event)
	}

	r := d.config.Retry

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = r.InitialInterval
	expBackoff.MaxInterval = r.MaxInterval
	expBackoff.Multiplier = r.Multiplier
	expBackoff.MaxElapsedTime = r.MaxElapsedTime
	expBackoff.RandomizationFactor = r.RandomizationFactor
	expBackoff.Reset()

	retryNum := 0

	return backoff.RetryNotify(
		func() error {
			err := d.publisher.Publish(ctx, event)
			if err == nil {
				return nil
			}
			if errors.Is(err, ErrWrapperConstruction) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(r.MaxRetries)), ctx),
		func(err error, delay time.Duration) {
			retryNum++
			logger.Error("Publishing domain event failed, retrying", err, domainkit.LogFields{
				"retry_no":    retryNum,
				"max_retries": r.MaxRetries,
				"wait_time":   delay,
			})
			if r.OnRetryHook != nil {
				r.OnRetryHook(retryNum, delay)
			}
		},
	)
}
