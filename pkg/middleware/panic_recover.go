package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/common"
)

type panicRecoverMiddleware struct {
	logger *logrus.Logger
}

func NewPanicRecoverMiddleware(logger *logrus.Logger) Middleware {
	return &panicRecoverMiddleware{logger: logger}
}

// Middleware converts a handler panic into a logged 500 so one bad
// submission cannot take the worker down.
func (m *panicRecoverMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = m.respond(c, r)
			}
		}()
		return c.Next()
	}
}

func (m *panicRecoverMiddleware) respond(c *fiber.Ctx, cause interface{}) error {
	m.logger.WithFields(logrus.Fields{
		"error":    cause,
		"path":     c.Path(),
		"trace_id": c.Locals(common.TraceIdKey),
	}).Error("recovered from handler panic")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
