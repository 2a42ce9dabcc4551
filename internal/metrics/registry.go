// Package metrics exposes Prometheus metrics for the HTTP surface and the
// prerequisite engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prereqs"

// Registry holds all metrics for the application.
type Registry struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRateLimited      prometheus.Counter

	// Catalog snapshot
	CatalogsLoaded     prometheus.Gauge
	CoursesLoaded      prometheus.Gauge
	IndexBuildDuration *prometheus.HistogramVec
	IndexEdges         *prometheus.GaugeVec

	// Engine
	DetailBuildDuration prometheus.Histogram
	DetailCacheResults  *prometheus.CounterVec
	SearchQueriesTotal  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every metric initialized, plus the
// standard Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initHTTPMetrics()
	r.initCatalogMetrics()
	r.initEngineMetrics()
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
