package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "notes").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
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
		Namespace: "notes",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
type Metrics struct {
	storeWrites       prometheus.Counter
	notifications     prometheus.Counter
	computationErrors *prometheus.CounterVec

	renderPasses   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	mutations      *prometheus.CounterVec

	liveViewers  prometheus.Gauge
	liveFrames   prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// Default returns metrics registered with the default Prometheus registerer.
// It is created on first use.
func Default() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = New()
	})
	return defaultMetrics
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counterOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}

	return &Metrics{
		storeWrites: factory.NewCounter(counterOpts(
			"store_writes_total", "Total number of reactive store writes")),

		notifications: factory.NewCounter(counterOpts(
			"store_notifications_total", "Total number of dependent computations run by writes")),

		computationErrors: factory.NewCounterVec(counterOpts(
			"computation_errors_total", "Total number of failed dependent computations"),
			[]string{"reason"}),

		renderPasses: factory.NewCounterVec(counterOpts(
			"render_passes_total", "Total number of render passes"),
			[]string{"mode"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_pass_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutations: factory.NewCounterVec(counterOpts(
			"dom_mutations_total", "Total number of live document mutations"),
			[]string{"kind"}),

		liveViewers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_viewers",
			Help:        "Number of connected live preview viewers",
			ConstLabels: config.ConstLabels,
		}),

		liveFrames: factory.NewCounter(counterOpts(
			"live_frames_sent_total", "Total number of mutation frames sent to viewers")),

		httpRequests: factory.NewCounterVec(counterOpts(
			"http_requests_total", "Total number of live preview HTTP requests"),
			[]string{"route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "Live preview HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		requests: factory.NewCounterVec(counterOpts(
			"api_requests_total", "Total number of notes API requests"),
			[]string{"op", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "api_request_duration_seconds",
			Help:        "Notes API request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		cacheLookups: factory.NewCounterVec(counterOpts(
			"cache_lookups_total", "Total number of offline cache lookups"),
			[]string{"result"}),
	}
}

// StoreWrite records a reactive store write.
func (m *Metrics) StoreWrite() {
	if m == nil {
		return
	}
	m.storeWrites.Inc()
}

// Notified records dependent computations run by a write.
func (m *Metrics) Notified(n int) {
	if m == nil {
		return
	}
	m.notifications.Add(float64(n))
}

// ComputationError records a failed dependent computation.
// reason is "panic" or "depth".
func (m *Metrics) ComputationError(reason string) {
	if m == nil {
		return
	}
	m.computationErrors.WithLabelValues(reason).Inc()
}

// RenderPass records a render pass. mode is "mount" or "patch".
func (m *Metrics) RenderPass(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.renderPasses.WithLabelValues(mode).Inc()
	m.renderDuration.Observe(d.Seconds())
}

// Mutation records a live document mutation.
func (m *Metrics) Mutation(kind string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(kind).Inc()
}

// ViewerConnected records a live preview viewer joining.
func (m *Metrics) ViewerConnected() {
	if m == nil {
		return
	}
	m.liveViewers.Inc()
}

// ViewerDisconnected records a live preview viewer leaving.
func (m *Metrics) ViewerDisconnected() {
	if m == nil {
		return
	}
	m.liveViewers.Dec()
}

// FrameSent records a frame sent to a viewer.
func (m *Metrics) FrameSent() {
	if m == nil {
		return
	}
	m.liveFrames.Inc()
}

// HTTPRequest records a request served by the live preview.
func (m *Metrics) HTTPRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Request records a notes API request.
func (m *Metrics) Request(op, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, status).Inc()
	m.requestDuration.WithLabelValues(op).Observe(d.Seconds())
}

// CacheLookup records an offline cache lookup. result is "hit" or "miss".
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
