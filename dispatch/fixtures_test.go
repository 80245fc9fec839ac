package dispatch_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/mediator"
)

type Order struct {
	domain.AggregateRoot[string]
	Amount int64
}

func NewOrder(id string) *Order {
	return &Order{AggregateRoot: domain.NewAggregateRoot(id)}
}

func (o *Order) Create() {
	o.RaiseDomainEvent(&OrderCreated{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID()})
}

func (o *Order) Price(amount int64) {
	o.Amount = amount
	o.RaiseDomainEvent(&OrderPriced{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID(), Amount: amount})
}

func (o *Order) Confirm() {
	o.RaiseDomainEvent(&OrderConfirmed{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID()})
}

type OrderCreated struct {
	domain.DomainEvent
	OrderID string
}

type OrderPriced struct {
	domain.DomainEvent
	OrderID string
	Amount  int64
}

type OrderConfirmed struct {
	domain.DomainEvent
	OrderID string
}

// OrderArchived is never registered.
type OrderArchived struct {
	domain.DomainEvent
	OrderID string
}

func newPlacedOrder(id string) *Order {
	order := NewOrder(id)
	order.Create()
	order.Price(100)
	order.Confirm()
	return order
}

func newOrderRegistry(t *testing.T) *dispatch.Registry {
	t.Helper()

	registry := dispatch.NewRegistry()
	require.NoError(t, dispatch.Register[*OrderCreated](registry))
	require.NoError(t, dispatch.Register[*OrderPriced](registry))
	require.NoError(t, dispatch.Register[*OrderConfirmed](registry))

	return registry
}

// recordingMediator returns errs[i] for the i-th call, nil when errs are exhausted.
type recordingMediator struct {
	lock      sync.Mutex
	published []mediator.Notification
	errs      []error
}

func (m *recordingMediator) Publish(ctx context.Context, notification mediator.Notification) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	call := len(m.published)
	m.published = append(m.published, notification)

	if call < len(m.errs) {
		return m.errs[call]
	}
	return nil
}

func (m *recordingMediator) Published() []mediator.Notification {
	m.lock.Lock()
	defer m.lock.Unlock()

	return append([]mediator.Notification(nil), m.published...)
}

type publisherFunc func(ctx context.Context, event domain.Event) error

func (f publisherFunc) Publish(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}
