package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector collects and exposes metrics
type Collector struct {
	registry     *prometheus.Registry
	objectsTotal *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     prometheus.Histogram
}

// New creates a new metrics collector registered on the given registry
func New(registry *prometheus.Registry) *Collector {
	c := &Collector{
		registry: registry,
		objectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3public_objects_total",
				Help: "Total number of objects processed",
			},
			[]string{"status"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3public_failures_total",
				Help: "Total number of failed updates by error kind",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3public_update_duration_seconds",
				Help:    "Time taken to update one object's ACL",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(c.objectsTotal)
	registry.MustRegister(c.failures)
	registry.MustRegister(c.duration)

	return c
}

// IncSuccess increments the successful object counter
func (c *Collector) IncSuccess() {
	c.objectsTotal.WithLabelValues("success").Inc()
}

// IncSkipped increments the skipped object counter
func (c *Collector) IncSkipped() {
	c.objectsTotal.WithLabelValues("skipped").Inc()
}

// IncFailed increments the failed object counter for the given error kind
func (c *Collector) IncFailed(kind string) {
	c.objectsTotal.WithLabelValues("failed").Inc()
	c.failures.WithLabelValues(kind).Inc()
}

// ObserveDuration observes one update's duration
func (c *Collector) ObserveDuration(d time.Duration) {
	c.duration.Observe(d.Seconds())
}

// StartServer starts the metrics HTTP server on addr, blocking until it exits
func (c *Collector) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
