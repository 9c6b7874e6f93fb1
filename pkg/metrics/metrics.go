// Package metrics exposes Prometheus collectors for the rendering engine:
// renders, patches, events, and live session counts.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the metrics collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "arbor").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option configures the metrics collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "arbor",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type collectors struct {
	rendersTotal   prometheus.Counter
	renderDuration prometheus.Histogram
	patchesSent    prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

var (
	global   *collectors
	globalMu sync.Mutex
)

func initCollectors(config Config) *collectors {
	factory := promauto.With(config.Registry)

	return &collectors{
		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "renders_total",
			Help:        "Total number of component tree renders",
			ConstLabels: config.ConstLabels,
		}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "render_duration_seconds",
			Help:        "Render plus diff duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "patches_sent_total",
			Help:        "Total number of patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "events_total",
			Help:        "Total number of client events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "active_sessions",
			Help:        "Number of live WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Init registers the collectors. Safe to call once; later calls with
// different options are ignored.
func Init(opts ...Option) {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = initCollectors(config)
	}
}

// RecordRender records one render pass and its duration.
func RecordRender(d time.Duration) {
	if global != nil {
		global.rendersTotal.Inc()
		global.renderDuration.Observe(d.Seconds())
	}
}

// RecordPatches records patches sent to a client.
func RecordPatches(count int) {
	if global != nil {
		global.patchesSent.Add(float64(count))
	}
}

// RecordEvent records one processed client event.
func RecordEvent(eventType string, err error) {
	if global == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	global.eventsTotal.WithLabelValues(eventType, status).Inc()
}

// SessionStarted increments the live session gauge.
func SessionStarted() {
	if global != nil {
		global.activeSessions.Inc()
	}
}

// SessionEnded decrements the live session gauge.
func SessionEnded() {
	if global != nil {
		global.activeSessions.Dec()
	}
}
