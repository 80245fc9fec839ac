package mediator

import (
	"context"
	"reflect"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/domainkit/domainkit"
	"github.com/domainkit/domainkit/internal"
)

// Mediator routes notifications to handlers registered for their concrete type.
// It is safe for concurrent use, handlers can be added while notifications are published.
type Mediator struct {
	config Config
	logger domainkit.LoggerAdapter

	handlers     map[reflect.Type][]NotificationHandler
	handlersLock sync.RWMutex
}

func NewMediator(config Config) (*Mediator, error) {
	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Mediator{
		config: config,
		logger: config.Logger.With(domainkit.LogFields{
			"mediator_uuid": domainkit.NewShortUUID(),
			"strategy":      config.Strategy.String(),
		}),
		handlers: map[reflect.Type][]NotificationHandler{},
	}, nil
}

// AddHandlers registers handlers. Nothing is registered when any of the handlers is invalid.
func (m *Mediator) AddHandlers(handlers ...NotificationHandler) error {
	m.handlersLock.Lock()
	defer m.handlersLock.Unlock()

	added := map[reflect.Type]map[string]struct{}{}
	for t, registered := range m.handlers {
		added[t] = map[string]struct{}{}
		for _, h := range registered {
			added[t][h.HandlerName()] = struct{}{}
		}
	}

	for i, handler := range handlers {
		if internal.IsNil(handler) {
			return errors.Errorf("handler %d is nil", i)
		}
		if handler.HandlerName() == "" {
			return errors.Errorf("handler %d (%s) has empty name", i, internal.ObjectName(handler))
		}

		t := handler.NotificationType()
		if t == nil || t.Kind() == reflect.Interface {
			return errors.Errorf(
				"handler %s: notification type must be concrete, got %v",
				handler.HandlerName(), t,
			)
		}

		if added[t] == nil {
			added[t] = map[string]struct{}{}
		}
		if _, ok := added[t][handler.HandlerName()]; ok {
			return errors.Errorf("handler %s is already registered for %s", handler.HandlerName(), t)
		}
		added[t][handler.HandlerName()] = struct{}{}
	}

	for _, handler := range handlers {
		t := handler.NotificationType()
		m.handlers[t] = append(m.handlers[t], handler)

		m.logger.Debug("Adding notification handler", domainkit.LogFields{
			"handler_name":      handler.HandlerName(),
			"notification_type": t.String(),
		})
	}

	return nil
}

// Handlers returns handlers registered for notifications of type t, in registration order.
func (m *Mediator) Handlers(t reflect.Type) []NotificationHandler {
	m.handlersLock.RLock()
	defer m.handlersLock.RUnlock()

	return append([]NotificationHandler(nil), m.handlers[t]...)
}

// Publish delivers notification to all handlers registered for its concrete type.
// Publishing a notification without handlers is not an error.
func (m *Mediator) Publish(ctx context.Context, notification Notification) error {
	if internal.IsNil(notification) {
		return errors.New("cannot publish nil notification")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	handlers := m.Handlers(reflect.TypeOf(notification))

	logger := m.logger.With(domainkit.LogFields{
		"notification":   notification.NotificationName(),
		"handlers_count": len(handlers),
	})

	if len(handlers) == 0 {
		logger.Debug("No handlers for notification", nil)
		return nil
	}

	logger.Trace("Publishing notification", nil)

	if m.config.Strategy == ParallelStrategy {
		return m.publishParallel(ctx, handlers, notification, logger)
	}

	return m.publishSequential(ctx, handlers, notification, logger)
}

func (m *Mediator) publishSequential(
	ctx context.Context,
	handlers []NotificationHandler,
	notification Notification,
	logger domainkit.LoggerAdapter,
) error {
	var result *multierror.Error

	for _, handler := range handlers {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err).ErrorOrNil()
		}

		if err := m.handle(ctx, handler, notification, logger); err != nil {
			if !m.config.ContinueOnError {
				return err
			}
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func (m *Mediator) publishParallel(
	ctx context.Context,
	handlers []NotificationHandler,
	notification Notification,
	logger domainkit.LoggerAdapter,
) error {
	if !m.config.ContinueOnError {
		g, gCtx := errgroup.WithContext(ctx)
		for _, handler := range handlers {
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				return m.handle(gCtx, handler, notification, logger)
			})
		}

		return g.Wait()
	}

	var (
		g          errgroup.Group
		result     *multierror.Error
		resultLock sync.Mutex
	)
	for _, handler := range handlers {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = m.handle(ctx, handler, notification, logger)
			}
			if err != nil {
				resultLock.Lock()
				result = multierror.Append(result, err)
				resultLock.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return result.ErrorOrNil()
}

func (m *Mediator) handle(
	ctx context.Context,
	handler NotificationHandler,
	notification Notification,
	logger domainkit.LoggerAdapter,
) error {
	fields := domainkit.LogFields{"handler_name": handler.HandlerName()}
	logger.Trace("Handling notification", fields)

	var err error
	if m.config.OnHandle != nil {
		err = m.config.OnHandle(OnHandleParams{
			Ctx:          ctx,
			Handler:      handler,
			Notification: notification,
		})
	} else {
		err = handler.Handle(ctx, notification)
	}

	if err != nil {
		logger.Error("Notification handler failed", err, fields)
		return errors.Wrapf(err, "handler %s failed", handler.HandlerName())
	}

	return nil
}
