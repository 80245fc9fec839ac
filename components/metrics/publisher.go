package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/domain"
)

// PublisherPrometheusMetricsDecorator decorates a domain event publisher to capture Prometheus metrics.
type PublisherPrometheusMetricsDecorator struct {
	pub                  dispatch.Publisher
	publisherName        string
	publishTimeSeconds   *prometheus.HistogramVec
	eventsPublishedTotal *prometheus.CounterVec
}

// Publish updates the relevant publisher metrics and calls the wrapped publisher's Publish.
func (m PublisherPrometheusMetricsDecorator) Publish(ctx context.Context, event domain.Event) (err error) {
	if publishAlreadyObserved(ctx) {
		return m.pub.Publish(ctx, event)
	}

	labels := prometheus.Labels{
		labelKeyEventType:     dispatch.EventName(event),
		labelKeyPublisherName: m.publisherName,
	}
	start := time.Now()

	defer func() {
		labels[labelSuccess] = successLabel(err)
		m.publishTimeSeconds.With(labels).Observe(time.Since(start).Seconds())
		m.eventsPublishedTotal.With(labels).Inc()
	}()

	return m.pub.Publish(setPublishObservedToCtx(ctx), event)
}
