package metrics

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/domainkit/domainkit/domain"
)

func TestOpenTelemetryMetricsBuilder_DecoratePublisher(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	builder := NewOpenTelemetryMetricsBuilder(provider.Meter("test"), "domainkit", "dispatch")

	errPublish := errors.New("failed")
	fail := false
	pub, err := builder.DecoratePublisher(publisherFunc(func(ctx context.Context, event domain.Event) error {
		if fail {
			return errPublish
		}
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), &orderCreated{}))
	fail = true
	assert.Equal(t, errPublish, pub.Publish(context.Background(), &orderCreated{}))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	metricsByName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		metricsByName[m.Name] = m
	}

	counter, ok := metricsByName["domainkit_dispatch_events_published_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, counter.DataPoints, 2)

	totals := map[string]int64{}
	for _, dp := range counter.DataPoints {
		eventType, _ := dp.Attributes.Value(attribute.Key(labelKeyEventType))
		publisherName, _ := dp.Attributes.Value(attribute.Key(labelKeyPublisherName))
		success, _ := dp.Attributes.Value(attribute.Key(labelSuccess))
		totals[eventType.AsString()+"/"+publisherName.AsString()+"/"+success.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"orderCreated/publisherFunc/true": 1, "orderCreated/publisherFunc/false": 1}, totals)

	histogram, ok := metricsByName["domainkit_dispatch_publish_time_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, histogram.DataPoints, 2)
}
