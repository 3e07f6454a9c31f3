// Package metrics collects and exposes Prometheus metrics for backend calls
// and navigation-guard redirects.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements api.Observer and records guard redirects.
type Collector struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	guardRedirects *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finmate_api_requests_total",
			Help: "Backend requests by endpoint and HTTP status (0 = no response).",
		}, []string{"endpoint", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finmate_api_request_duration_seconds",
			Help:    "Backend request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		guardRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finmate_guard_redirects_total",
			Help: "Navigations to protected routes redirected to login.",
		}, []string{"route"}),
	}

	reg.MustRegister(c.requests, c.duration, c.guardRedirects)
	return c
}

// ObserveRequest records one backend request.
func (c *Collector) ObserveRequest(endpoint string, status int, seconds float64) {
	c.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(endpoint).Observe(seconds)
}

// GuardRedirect records a blocked navigation to route.
func (c *Collector) GuardRedirect(route string) {
	c.guardRedirects.WithLabelValues(route).Inc()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
