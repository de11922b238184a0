// Package metrics exposes sitegen build and serving counters through a
// dedicated Prometheus registry.
package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prom.NewRegistry()

	BuildsTotal = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "builds_total",
		Help:      "Total build passes, labeled by outcome",
	}, []string{"outcome"})

	PagesRendered = prom.NewCounter(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "pages_rendered_total",
		Help:      "Total pages successfully rendered across all builds",
	})

	DocumentFailures = prom.NewCounter(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "document_failures_total",
		Help:      "Per-document pipeline failures that were skipped",
	})

	RequestsTotal = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, labeled by status code",
	}, []string{"code"})
)

func init() {
	registry.MustRegister(BuildsTotal, PagesRendered, DocumentFailures, RequestsTotal)
}

// Handler returns the /metrics endpoint handler for the sitegen registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
