package metrics

import (
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/domainkit/domainkit/dispatch"
	"github.com/domainkit/domainkit/internal"
)

func NewOpenTelemetryMetricsBuilder(meter metric.Meter, namespace string, subsystem string) OpenTelemetryMetricsBuilder {
	return OpenTelemetryMetricsBuilder{
		Namespace: namespace,
		Subsystem: subsystem,
		meter:     meter,
	}
}

// OpenTelemetryMetricsBuilder provides methods to decorate domain event publishers.
type OpenTelemetryMetricsBuilder struct {
	meter metric.Meter

	Namespace string
	Subsystem string
	// PublishBuckets defines the histogram buckets for publish time histogram, defaulted if nil.
	PublishBuckets []float64
}

// DecoratePublisher wraps the underlying publisher with OpenTelemetry metrics.
func (b OpenTelemetryMetricsBuilder) DecoratePublisher(pub dispatch.Publisher) (dispatch.Publisher, error) {
	var err error
	d := PublisherOpenTelemetryMetricsDecorator{
		pub:           pub,
		publisherName: internal.StructName(pub),
	}

	d.publishTimeSeconds, err = b.meter.Float64Histogram(
		b.name("publish_time_seconds"),
		metric.WithUnit("s"),
		metric.WithDescription("The time that a domain event publishing attempt (success or not) took in seconds"),
		metric.WithExplicitBucketBoundaries(b.PublishBuckets...),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not register publish time metric")
	}

	d.eventsPublishedTotal, err = b.meter.Int64Counter(
		b.name("events_published_total"),
		metric.WithDescription("The total number of domain event publishing attempts"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not register events published metric")
	}

	return d, nil
}

func (b OpenTelemetryMetricsBuilder) name(name string) string {
	if b.Subsystem != "" {
		name = b.Subsystem + "_" + name
	}
	if b.Namespace != "" {
		name = b.Namespace + "_" + name
	}
	return name
}
