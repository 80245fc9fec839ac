package dispatch

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrWrapperConstruction is matched by every *WrapperConstructionError.
var ErrWrapperConstruction = errors.New("cannot construct domain event notification")

var (
	ErrEventTypeNotRegistered = errors.New("event type is not registered")
	ErrNilEvent               = errors.New("event is nil")
)

// WrapperConstructionError is returned when the notification for an event can't be built.
// Nothing is published when it occurs.
type WrapperConstructionError struct {
	EventType string
	Err       error
}

func (e *WrapperConstructionError) Error() string {
	return fmt.Sprintf("cannot construct DomainEventNotification[%s]: %s", e.EventType, e.Err)
}

func (e *WrapperConstructionError) Unwrap() error {
	return e.Err
}

func (e *WrapperConstructionError) Is(target error) bool {
	return target == ErrWrapperConstruction
}
