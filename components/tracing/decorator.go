package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/domain"
	"github.com/domainkit/domainkit/internal"
	"github.com/domainkit/domainkit/mediator"
)

const instrumentationName = "github.com/domainkit/domainkit/components/tracing"

const (
	EventTypeAttribute     = attribute.Key("domain_event.type")
	EventOccurredAttribute = attribute.Key("domain_event.occurred_on_utc")
	HandlerNameAttribute   = attribute.Key("mediator.handler_name")
	NotificationAttribute  = attribute.Key("mediator.notification")
)

func tracerOrGlobal(tracer trace.Tracer) trace.Tracer {
	if tracer == nil {
		return otel.Tracer(instrumentationName)
	}
	return tracer
}

type publisherDecorator struct {
	pub    dispatch.Publisher
	tracer trace.Tracer
}

// DecoratePublisher starts a producer span for every published domain event.
// If tracer is nil, the global tracer provider is used.
func DecoratePublisher(pub dispatch.Publisher, tracer trace.Tracer) dispatch.Publisher {
	return publisherDecorator{
		pub:    pub,
		tracer: tracerOrGlobal(tracer),
	}
}

func (d publisherDecorator) Publish(ctx context.Context, event domain.Event) error {
	eventType := dispatch.EventName(event)

	attrs := []attribute.KeyValue{EventTypeAttribute.String(eventType)}
	if !internal.IsNil(event) {
		attrs = append(attrs, EventOccurredAttribute.String(event.OccurredOnUTC().Format(time.RFC3339Nano)))
	}

	ctx, span := d.tracer.Start(
		ctx,
		"publish "+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	err := d.pub.Publish(ctx, event)
	recordError(span, err)

	return err
}

// NewHandlerMiddleware returns mediator.OnHandleFn running every handler in a consumer span.
// When next is not nil, it's called instead of the handler.
func NewHandlerMiddleware(tracer trace.Tracer, next mediator.OnHandleFn) mediator.OnHandleFn {
	tracer = tracerOrGlobal(tracer)

	return func(params mediator.OnHandleParams) error {
		ctx, span := tracer.Start(
			params.Ctx,
			"handle "+params.Handler.HandlerName(),
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				HandlerNameAttribute.String(params.Handler.HandlerName()),
				NotificationAttribute.String(params.Notification.NotificationName()),
			),
		)
		defer span.End()

		params.Ctx = ctx

		var err error
		if next != nil {
			err = next(params)
		} else {
			err = params.Handler.Handle(ctx, params.Notification)
		}
		recordError(span, err)

		return err
	}
}

func recordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
