// Domainkit provides the building blocks for domain models that record what happened to them.
//
// Aggregates embed domain.AggregateRoot to get identity based equality and an event
// buffer. After a state change is committed, an orchestrator hands the buffered events
// one by one to dispatch.Service, which wraps each event in a notification typed by the
// event's concrete type and publishes it through the mediator to the handlers
// registered for exactly that type.
//
// The root package holds the ambient pieces shared by all packages: logger adapters
// and identifier generators.
package domainkit
