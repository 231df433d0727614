package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Config struct {
	// Namespace is the metrics namespace (default: "dune").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "dune",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Prometheus is a Collector backed by client_golang.
type Prometheus struct {
	activeConns   prometheus.Gauge
	connDuration  prometheus.Histogram
	receivedBytes prometheus.Counter
	sentBytes     prometheus.Counter
	frames        *prometheus.CounterVec
	events        *prometheus.CounterVec
	errors        *prometheus.CounterVec
}

var _ Collector = (*Prometheus)(nil)

// NewPrometheus registers the collectors with the configured registry. It
// panics if they are already registered there, as promauto does.
func NewPrometheus(opts ...Option) *Prometheus {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Prometheus{
		activeConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "active_connections",
			Help:      "Current number of open connections",
		}),
		connDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "connection_duration_seconds",
			Help:      "Connection duration in seconds",
			Buckets:   []float64{1, 10, 60, 300, 600, 1800, 3600},
		}),
		receivedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "received_bytes_total",
			Help:      "Total bytes read from sockets",
		}),
		sentBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "sent_bytes_total",
			Help:      "Total bytes written to sockets",
		}),
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "frames_total",
			Help:      "Total complete frames by direction",
		}, []string{"direction"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "events_total",
			Help:      "Total events delivered to subscribers by kind",
		}, []string{"kind"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "errors_total",
			Help:      "Total errors by kind",
		}, []string{"kind"}),
	}
}

func (p *Prometheus) IncConns() {
	p.activeConns.Inc()
}

func (p *Prometheus) DecConns() {
	p.activeConns.Dec()
}

func (p *Prometheus) ObserveConnDuration(duration time.Duration) {
	p.connDuration.Observe(duration.Seconds())
}

func (p *Prometheus) AddReceivedBytes(bytes int) {
	p.receivedBytes.Add(float64(bytes))
}

func (p *Prometheus) AddSentBytes(bytes int) {
	p.sentBytes.Add(float64(bytes))
}

func (p *Prometheus) IncFrames(direction string) {
	p.frames.WithLabelValues(direction).Inc()
}

func (p *Prometheus) IncEvents(kind string) {
	p.events.WithLabelValues(kind).Inc()
}

func (p *Prometheus) IncErrors(kind string) {
	p.errors.WithLabelValues(kind).Inc()
}

func (p *Prometheus) Close() error {
	return nil
}
