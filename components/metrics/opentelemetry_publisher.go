package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/domain"
)

// PublisherOpenTelemetryMetricsDecorator decorates a domain event publisher to capture OpenTelemetry metrics.
type PublisherOpenTelemetryMetricsDecorator struct {
	pub                  dispatch.Publisher
	publisherName        string
	publishTimeSeconds   metric.Float64Histogram
	eventsPublishedTotal metric.Int64Counter
}

// Publish updates the relevant publisher metrics and calls the wrapped publisher's Publish.
func (m PublisherOpenTelemetryMetricsDecorator) Publish(ctx context.Context, event domain.Event) (err error) {
	if publishAlreadyObserved(ctx) {
		return m.pub.Publish(ctx, event)
	}

	start := time.Now()

	defer func() {
		attrs := metric.WithAttributes(
			attribute.String(labelKeyEventType, dispatch.EventName(event)),
			attribute.String(labelKeyPublisherName, m.publisherName),
			attribute.String(labelSuccess, successLabel(err)),
		)
		m.publishTimeSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
		m.eventsPublishedTotal.Add(ctx, 1, attrs)
	}()

	return m.pub.Publish(setPublishObservedToCtx(ctx), event)
}
