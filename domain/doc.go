// Package domain contains the primitives aggregates are built from.
//
// AggregateRoot is meant to be embedded by pointer-receiver aggregates:
//
//	type Order struct {
//		domain.AggregateRoot[string]
//		status string
//	}
//
//	func (o *Order) Confirm() {
//		o.status = "confirmed"
//		o.RaiseDomainEvent(&OrderConfirmed{DomainEvent: domain.NewDomainEvent(), OrderID: o.ID()})
//	}
//
// RaiseDomainEvent is exported only because it is promoted through embedding. Code outside
// the aggregate is expected to hold it as an EventSource, which can read and clear the
// buffer but has no way to append to it.
//
// Aggregates are compared with Equal, value objects with ValuesEqual.
//
// Nothing in this package is safe for concurrent mutation: an aggregate is changed by a
// single unit of work at a time.
package domain
