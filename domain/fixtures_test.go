package domain_test

import (
	"github.com/google/uuid"

	"github.com/domainkit/domainkit/domain"
)

type Order struct {
	domain.AggregateRoot[string]
	Status string
}

func NewOrder(id string) *Order {
	return &Order{AggregateRoot: domain.NewAggregateRoot(id)}
}

func (o *Order) Create() {
	o.Status = "created"
	o.RaiseDomainEvent(&OrderCreated{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID()})
}

func (o *Order) Price(amount int64) {
	o.RaiseDomainEvent(&OrderPriced{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID(), Amount: amount})
}

func (o *Order) Confirm() {
	o.Status = "confirmed"
	o.RaiseDomainEvent(&OrderConfirmed{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID()})
}

type Invoice struct {
	domain.AggregateRoot[string]
}

func NewInvoice(id string) *Invoice {
	return &Invoice{AggregateRoot: domain.NewAggregateRoot(id)}
}

type Customer struct {
	domain.AggregateRoot[uuid.UUID]
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

type Money struct {
	Amount   int64
	Currency string
}

func (m Money) EqualityComponents() []any {
	return []any{m.Amount, m.Currency}
}

// Price has the same components as Money, but is a different type.
type Price struct {
	Amount   int64
	Currency string
}

func (p Price) EqualityComponents() []any {
	return []any{p.Amount, p.Currency}
}

type Pair struct {
	First, Second any
}

func (p Pair) EqualityComponents() []any {
	return []any{p.First, p.Second}
}

type Unit struct{}

func (Unit) EqualityComponents() []any {
	return nil
}
