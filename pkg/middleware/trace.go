package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/common"
)

type traceMiddleware struct {
	logger *logrus.Logger
}

// NewTraceMiddleware tags every request with a trace id and the
// request start time. An inbound X-Trace-Id is honored so the calling
// backend can correlate its own logs with ours.
func NewTraceMiddleware(logger *logrus.Logger) Middleware {
	return &traceMiddleware{logger: logger}
}

func (m *traceMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(common.TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Locals(common.TraceIdKey, traceID)
		c.Locals(common.LatencyKey, time.Now())
		c.Set(common.TraceIDHeader, traceID)

		return c.Next()
	}
}
