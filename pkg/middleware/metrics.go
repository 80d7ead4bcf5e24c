package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/common"
	"github.com/threadworks/gatehouse/pkg/infra/prometheus"
)

const (
	metricsQueueSize   = 1000
	metricsWorkerCount = 5
)

type requestSample struct {
	method  string
	path    string
	status  int
	elapsed time.Duration
}

type metricsMiddleware struct {
	logger  *logrus.Logger
	samples chan requestSample
}

// NewMetricsMiddleware records request counters and latency off the
// request path through a small worker pool.
func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	m := &metricsMiddleware{
		logger:  logger,
		samples: make(chan requestSample, metricsQueueSize),
	}
	for i := 0; i < metricsWorkerCount; i++ {
		go m.worker()
	}
	return m
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime, ok := c.Locals(common.LatencyKey).(time.Time)
		if !ok {
			startTime = time.Now()
		}

		err := c.Next()

		sample := requestSample{
			method:  c.Method(),
			path:    c.Path(),
			status:  c.Response().StatusCode(),
			elapsed: time.Since(startTime),
		}
		select {
		case m.samples <- sample:
		default:
			m.logger.Warn("metrics queue full, dropping sample")
		}

		return err
	}
}

func (m *metricsMiddleware) worker() {
	for sample := range m.samples {
		m.record(sample)
	}
}

func (m *metricsMiddleware) record(sample requestSample) {
	prometheus.RequestTotal.WithLabelValues(
		sample.method,
		sample.path,
		statusClass(sample.status),
	).Inc()

	if prometheus.Config.EnableLatency {
		prometheus.RequestLatency.WithLabelValues(sample.path).Observe(float64(sample.elapsed.Milliseconds()))
	}
}

// statusClass folds a status code into its hundred class, keeping
// label cardinality at a handful of values.
func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return strconv.Itoa(code/100) + "xx"
}
