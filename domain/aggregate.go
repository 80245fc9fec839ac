package domain

import (
	"slices"
)

// EventSource is the part of an aggregate visible to whoever dispatches its events.
// It can read and clear the buffer, but never append to it.
type EventSource interface {
	// DomainEvents returns the events raised since the last clear, in the order they were raised.
	DomainEvents() []Event

	// ClearDomainEvents empties the buffer.
	ClearDomainEvents()
}

// Aggregate is implemented by every type embedding AggregateRoot.
type Aggregate[TId comparable] interface {
	Identifiable[TId]
	EventSource
}

// AggregateRoot provides identity and a domain event buffer to the aggregate embedding it.
//
// The zero value is an aggregate without an identifier and with an empty buffer.
type AggregateRoot[TId comparable] struct {
	id TId

	domainEvents []Event
}

// NewAggregateRoot returns an AggregateRoot with the identifier already set.
func NewAggregateRoot[TId comparable](id TId) AggregateRoot[TId] {
	return AggregateRoot[TId]{id: id}
}

// ID returns the identifier, which is the zero value of TId until it is assigned.
func (a *AggregateRoot[TId]) ID() TId {
	return a.id
}

// SetID assigns the identifier. It should be called only by the aggregate itself,
// typically when it is created or restored from storage.
func (a *AggregateRoot[TId]) SetID(id TId) {
	a.id = id
}

// RaiseDomainEvent appends event to the buffer.
// There is no validation, deduplication or limit: the buffer grows until it is cleared.
func (a *AggregateRoot[TId]) RaiseDomainEvent(event Event) {
	a.domainEvents = append(a.domainEvents, event)
}

// DomainEvents returns a snapshot of the buffer.
// Changing the returned slice doesn't change the buffer, events raised later are visible
// only to the next call.
func (a *AggregateRoot[TId]) DomainEvents() []Event {
	return slices.Clone(a.domainEvents)
}

// ClearDomainEvents empties the buffer. It doesn't check whether the events were dispatched.
func (a *AggregateRoot[TId]) ClearDomainEvents() {
	clear(a.domainEvents)
	a.domainEvents = a.domainEvents[:0]
}
