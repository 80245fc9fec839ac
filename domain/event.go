package domain

import (
	"time"

	"github.com/domainkit/domainkit/internal"
)

// Event is a fact that happened inside an aggregate.
type Event interface {
	// OccurredOnUTC is the moment the event was created, in UTC.
	OccurredOnUTC() time.Time

	// IsPublished reports whether the event was marked as published with MarkPublished.
	IsPublished() bool
}

// PublishMarker is implemented by events which can be marked as published.
// Pointers to types embedding DomainEvent implement it.
type PublishMarker interface {
	MarkPublished()
}

// DomainEvent is the base of concrete domain events:
//
//	type OrderCreated struct {
//		domain.DomainEvent
//		OrderID string
//	}
//
//	event := &OrderCreated{DomainEvent: domain.NewDomainEvent(), OrderID: "42"}
//
// Concrete events should be raised as pointers, so the dispatch side can mark them as published.
type DomainEvent struct {
	occurredOnUTC time.Time
	published     bool
}

// NewDomainEvent returns a DomainEvent which occurred now.
func NewDomainEvent() DomainEvent {
	return DomainEvent{occurredOnUTC: time.Now().UTC()}
}

func (e DomainEvent) OccurredOnUTC() time.Time {
	return e.occurredOnUTC
}

func (e DomainEvent) IsPublished() bool {
	return e.published
}

func (e *DomainEvent) MarkPublished() {
	e.published = true
}

// MarkPublished marks event as published if it supports it.
// It returns false when the event doesn't implement PublishMarker, for example when it was raised as a value.
//
// Neither the aggregate buffer nor dispatch.Service call it; it's up to the orchestrator
// to decide when an event counts as published.
func MarkPublished(event Event) bool {
	marker, ok := event.(PublishMarker)
	if !ok || internal.IsNil(marker) {
		return false
	}

	marker.MarkPublished()
	return true
}
