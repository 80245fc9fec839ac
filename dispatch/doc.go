// Package dispatch delivers domain events raised by aggregates to the mediator.
//
// Every concrete event type is registered once, at startup:
//
//	registry := dispatch.NewRegistry()
//	dispatch.MustRegister[*OrderCreated](registry)
//
// Service wraps the event into DomainEventNotification of the event's runtime type and
// publishes it. Drainer publishes all events buffered by an aggregate, in order, and
// clears the buffer when all of them were delivered.
package dispatch
