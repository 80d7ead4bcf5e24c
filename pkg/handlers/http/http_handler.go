package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/threadworks/gatehouse/pkg/infra/prometheus"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

const ErrInvalidJsonPayload = "invalid json payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Checks
	CheckFloodHandler      Handler
	CheckModerationHandler Handler
	CheckDisallowedHandler Handler
	GateHandler            Handler

	// Service
	GetVersionHandler      Handler
	InvalidateCacheHandler Handler
}

// recordCheckMetrics feeds the per-check prometheus counters. kind is
// empty for accepted submissions.
func recordCheckMetrics(check string, allowed bool, kind moderation.Kind, start time.Time) {
	if prometheus.Config.EnableVerdicts {
		outcome := "allowed"
		if !allowed {
			outcome = "rejected"
		}
		prometheus.CheckTotal.WithLabelValues(check, outcome).Inc()
		if !allowed && kind != "" {
			prometheus.RejectionTotal.WithLabelValues(string(kind)).Inc()
		}
	}
	if prometheus.Config.EnablePerCheck {
		prometheus.CheckLatency.WithLabelValues(check).Observe(float64(time.Since(start).Milliseconds()))
	}
}
