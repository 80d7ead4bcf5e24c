package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	handlers "github.com/threadworks/gatehouse/pkg/handlers/http"
	"github.com/threadworks/gatehouse/pkg/middleware"
)

const (
	HealthPath          = "/health"
	PingPath            = "/__/ping"
	VersionPath         = "/version"
	InvalidateCachePath = "/invalidate-cache"
)

var ErrMissingHandler = errors.New("gate router: missing handler")

type gateRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewGateRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &gateRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

// BuildRoutes wires the decision endpoints behind the middleware chain.
// Health and ping stay in front of it so probes never show up in the
// request metrics.
func (r *gateRouter) BuildRoutes(router *fiber.App) error {
	t := r.handlerTransport
	if t.CheckFloodHandler == nil || t.CheckModerationHandler == nil ||
		t.CheckDisallowedHandler == nil || t.GateHandler == nil ||
		t.GetVersionHandler == nil || t.InvalidateCacheHandler == nil {
		return ErrMissingHandler
	}

	router.Get(HealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.Get(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"message": "pong",
		})
	})

	router.Post(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"message": "pong",
		})
	})

	router.Use(
		r.middlewareTransport.PanicRecoverMiddleware.Middleware(),
		r.middlewareTransport.TraceMiddleware.Middleware(),
		r.middlewareTransport.MetricsMiddleware.Middleware(),
	)

	router.Get(VersionPath, t.GetVersionHandler.Handle)
	router.Post(InvalidateCachePath, t.InvalidateCacheHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		checks := v1.Group("/checks")
		{
			checks.Post("/flood", t.CheckFloodHandler.Handle)
			checks.Post("/moderation", t.CheckModerationHandler.Handle)
			checks.Post("/disallowed", t.CheckDisallowedHandler.Handle)
		}

		v1.Post("/gate", t.GateHandler.Handle)
	}

	return nil
}
