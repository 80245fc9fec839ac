package dispatch

import (
	"context"

	"github.com/pkg/errors"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/mediator"
)

// Publisher publishes a single domain event.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type ServiceConfig struct {
	// Logger instance used to log.
	// If not provided, domainkit.NopLogger is used.
	Logger domainkit.LoggerAdapter
}

func (c *ServiceConfig) setDefaults() {
	if c.Logger == nil {
		c.Logger = domainkit.NopLogger{}
	}
}

// Service publishes domain events through the mediator.
//
// Service neither retries nor marks events as published, see Drainer for that.
type Service struct {
	registry *Registry
	mediator mediator.Publisher
	logger   domainkit.LoggerAdapter
}

func NewService(registry *Registry, mediator mediator.Publisher, config ServiceConfig) (*Service, error) {
	if registry == nil {
		return nil, errors.New("missing registry")
	}
	if mediator == nil {
		return nil, errors.New("missing mediator")
	}
	config.setDefaults()

	return &Service{
		registry: registry,
		mediator: mediator,
		logger:   config.Logger,
	}, nil
}

// Publish wraps the event into DomainEventNotification of its runtime type and publishes it.
// When the notification can't be built, *WrapperConstructionError is returned and the
// mediator is not called.
func (s *Service) Publish(ctx context.Context, event domain.Event) error {
	eventType := EventName(event)

	s.logger.Info("Publishing domain event", domainkit.LogFields{
		"event_type": eventType,
	})

	notification, err := s.registry.Wrap(event)
	if err != nil {
		return err
	}

	if err := s.mediator.Publish(ctx, notification); err != nil {
		return errors.Wrapf(err, "cannot publish %s", eventType)
	}

	return nil
}
