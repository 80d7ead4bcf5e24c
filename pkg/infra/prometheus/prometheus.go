package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25, // Fast responses (5-25ms)
		50, 100, 250, // Normal responses (50-250ms)
		500, 1000, 2500, // Slower responses (500ms-2.5s)
		5000, 10000, 30000, // Very slow/timeout (5s-30s)
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gatehouse_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"path"},
	)

	CheckTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_checks_total",
			Help: "Moderation checks by check name and outcome",
		},
		[]string{"check", "outcome"},
	)

	RejectionTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_rejections_total",
			Help: "Rejected submissions by rejection kind",
		},
		[]string{"kind"},
	)

	CheckLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gatehouse_check_latency_ms",
			Help:    "Per-check decision latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"check"},
	)

	MemberLookupTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "gatehouse_member_lookups_total",
			Help: "Member lookups by resolution source",
		},
		[]string{"source"}, // memory, redis, database
	)
)

type MetricsConfig struct {
	EnableLatency  bool // Basic latency metrics
	EnableVerdicts bool // Per-check outcome and rejection counters
	EnablePerCheck bool // Per-check latency histograms
	EnableLookups  bool // Member lookup source counters
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:  true,
		EnableVerdicts: true,
		EnablePerCheck: false,
		EnableLookups:  false, // Disabled by default (mostly a tuning aid)
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
