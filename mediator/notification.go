package mediator

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
)

// Notification is a message published to every handler registered for its concrete type.
type Notification interface {
	// NotificationName is used in logs and errors.
	NotificationName() string
}

// Publisher publishes notifications to their handlers.
type Publisher interface {
	Publish(ctx context.Context, notification Notification) error
}

// NotificationHandler handles notifications of a single concrete type returned by NotificationType.
//
// One instance of NotificationHandler is used for all notifications.
// With ParallelStrategy, Handle may be executed concurrently for different notifications,
// so it needs to be thread safe.
type NotificationHandler interface {
	// HandlerName identifies the handler, it must be unique among handlers of the same notification type.
	HandlerName() string

	// NotificationType is the concrete type of notifications handled.
	NotificationType() reflect.Type

	Handle(ctx context.Context, notification Notification) error
}

type genericNotificationHandler[N Notification] struct {
	handleFunc  func(ctx context.Context, notification N) error
	handlerName string
}

// NewNotificationHandler creates a NotificationHandler for notifications of type N.
// N must be a concrete type, handlers for interface types are rejected by Mediator.AddHandlers.
func NewNotificationHandler[N Notification](
	handlerName string,
	handleFunc func(ctx context.Context, notification N) error,
) NotificationHandler {
	return &genericNotificationHandler[N]{
		handleFunc:  handleFunc,
		handlerName: handlerName,
	}
}

func (h genericNotificationHandler[N]) HandlerName() string {
	return h.handlerName
}

func (h genericNotificationHandler[N]) NotificationType() reflect.Type {
	return reflect.TypeFor[N]()
}

func (h genericNotificationHandler[N]) Handle(ctx context.Context, notification Notification) error {
	typed, ok := notification.(N)
	if !ok {
		return errors.Errorf(
			"handler %s expects %s, got %T",
			h.handlerName, h.NotificationType(), notification,
		)
	}

	return h.handleFunc(ctx, typed)
}
