package dispatch

import (
	"context"

	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/mediator"
)

// DomainEventNotification carries a domain event of the concrete type E to the mediator.
type DomainEventNotification[E domain.Event] struct {
	Event E
}

func NewDomainEventNotification[E domain.Event](event E) DomainEventNotification[E] {
	return DomainEventNotification[E]{Event: event}
}

func (n DomainEventNotification[E]) NotificationName() string {
	return "DomainEventNotification[" + EventName(n.Event) + "]"
}

// NewEventHandler creates a mediator handler receiving events of type E.
//
//	handler := dispatch.NewEventHandler("SendConfirmation", func(ctx context.Context, e *OrderConfirmed) error {
//		// ...
//	})
func NewEventHandler[E domain.Event](
	handlerName string,
	handleFunc func(ctx context.Context, event E) error,
) mediator.NotificationHandler {
	return mediator.NewNotificationHandler(
		handlerName,
		func(ctx context.Context, n DomainEventNotification[E]) error {
			return handleFunc(ctx, n.Event)
		},
	)
}
