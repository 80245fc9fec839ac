package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/domainkit/domainkit/mediator"
)

var (
	// handlerExecutionTimeBuckets are one order of magnitude smaller than default buckets (5ms~10s),
	// because the handler execution times are typically shorter (µs~ms range).
	handlerExecutionTimeBuckets = []float64{
		0.0005,
		0.001,
		0.0025,
		0.005,
		0.01,
		0.025,
		0.05,
		0.1,
		0.25,
		0.5,
		1,
	}
)

// HandlerPrometheusMetricsMiddleware captures execution time of mediator notification handlers.
type HandlerPrometheusMetricsMiddleware struct {
	handlerExecutionTimeSeconds *prometheus.HistogramVec
	next                        mediator.OnHandleFn
}

// OnHandle is meant to be used as mediator.Config.OnHandle.
func (m HandlerPrometheusMetricsMiddleware) OnHandle(params mediator.OnHandleParams) (err error) {
	start := time.Now()
	labels := prometheus.Labels{
		labelKeyHandlerName:  params.Handler.HandlerName(),
		labelKeyNotification: params.Notification.NotificationName(),
	}

	defer func() {
		labels[labelSuccess] = successLabel(err)
		m.handlerExecutionTimeSeconds.With(labels).Observe(time.Since(start).Seconds())
	}()

	if m.next != nil {
		return m.next(params)
	}
	return params.Handler.Handle(params.Ctx, params.Notification)
}

// NewHandlerMiddleware returns the middleware measuring handlers.
// When next is not nil, it's called instead of the handler.
func (b PrometheusMetricsBuilder) NewHandlerMiddleware(next mediator.OnHandleFn) (HandlerPrometheusMetricsMiddleware, error) {
	var err error
	m := HandlerPrometheusMetricsMiddleware{next: next}

	m.handlerExecutionTimeSeconds, err = b.registerHistogramVec(prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: b.Namespace,
			Subsystem: b.Subsystem,
			Name:      "handler_execution_time_seconds",
			Help:      "The total time elapsed while executing the notification handler in seconds",
			Buckets:   handlerExecutionTimeBuckets,
		},
		handlerLabelKeys,
	))
	if err != nil {
		return HandlerPrometheusMetricsMiddleware{}, errors.Wrap(err, "could not register handler execution time metric")
	}

	return m, nil
}
