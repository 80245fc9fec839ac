package dispatch

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/internal"
	"github.com/domainkit/domainkit/mediator"
)

type wrapFunc func(event domain.Event) (mediator.Notification, error)

// Registry maps runtime types of events to constructors of their notifications.
// It's filled at startup and read on every dispatch.
type Registry struct {
	wrappers map[reflect.Type]wrapFunc
	lock     sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{wrappers: map[reflect.Type]wrapFunc{}}
}

// Register makes events of type E publishable as DomainEventNotification[E].
// E must be the concrete type the events are raised with, usually a pointer.
func Register[E domain.Event](r *Registry) error {
	t := reflect.TypeFor[E]()
	if t.Kind() == reflect.Interface {
		return errors.Errorf("cannot register interface type %s, event types must be concrete", t)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.wrappers[t]; ok {
		return errors.Errorf("event type %s is already registered", t)
	}

	r.wrappers[t] = func(event domain.Event) (mediator.Notification, error) {
		typed, ok := event.(E)
		if !ok {
			return nil, errors.Errorf("event of type %T is not %s", event, t)
		}
		return NewDomainEventNotification(typed), nil
	}

	return nil
}

// MustRegister is like Register, but panics on error.
func MustRegister[E domain.Event](r *Registry) {
	if err := Register[E](r); err != nil {
		panic(err)
	}
}

// Wrap builds the notification for the event's runtime type.
// The returned error is always a *WrapperConstructionError.
func (r *Registry) Wrap(event domain.Event) (mediator.Notification, error) {
	eventType := EventName(event)
	if internal.IsNil(event) {
		return nil, &WrapperConstructionError{EventType: eventType, Err: ErrNilEvent}
	}

	r.lock.RLock()
	wrap, ok := r.wrappers[reflect.TypeOf(event)]
	r.lock.RUnlock()

	if !ok {
		return nil, &WrapperConstructionError{EventType: eventType, Err: ErrEventTypeNotRegistered}
	}

	notification, err := wrap(event)
	if err != nil {
		return nil, &WrapperConstructionError{EventType: eventType, Err: err}
	}

	return notification, nil
}

func (r *Registry) IsRegistered(event domain.Event) bool {
	if event == nil {
		return false
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	_, ok := r.wrappers[reflect.TypeOf(event)]
	return ok
}

// EventTypes returns the registered types, sorted by name.
func (r *Registry) EventTypes() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	types := make([]string, 0, len(r.wrappers))
	for t := range r.wrappers {
		types = append(types, t.String())
	}
	sort.Strings(types)

	return types
}

// EventName returns the name of the event's concrete type, without package and pointer marker.
func EventName(event domain.Event) string {
	if event == nil {
		return "<nil>"
	}

	return internal.TypeName(reflect.TypeOf(event))
}
