package metrics

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domainkit/domainkit"
)

// ServeHTTP establishes an HTTP server that exposes the /metrics endpoint for Prometheus at the given address.
// It takes an existing Prometheus registry and returns a canceling function that ends the server.
// Failures of the server, like an address already in use, are logged on the error level.
func ServeHTTP(addr string, registry *prometheus.Registry, logger domainkit.LoggerAdapter) (cancel func()) {
	if logger == nil {
		logger = domainkit.NopLogger{}
	}

	server := http.Server{
		Addr:    addr,
		Handler: NewHTTPHandler(registry),
	}

	go func() {
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logger.Error("Metrics server failed", err, domainkit.LogFields{"addr": addr})
		}
	}()

	return func() { _ = server.Close() }
}

// NewHTTPHandler returns a router serving the registry's metrics on GET /metrics.
func NewHTTPHandler(registry *prometheus.Registry) http.Handler {
	router := chi.NewRouter()

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	})

	return router
}
