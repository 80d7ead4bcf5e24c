package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Server is the contract main runs an app through.
type Server interface {
	Run() error
	Shutdown() error
}

// newDecisionApp builds the fiber app serving the decision endpoints.
// Submissions are small JSON bodies, so the limits sit well below what
// a streaming proxy would need.
func newDecisionApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             2 * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		Concurrency:           16384,
	})

	srv := app.Server()
	srv.MaxConnsPerIP = 1024
	srv.ReadBufferSize = 8192
	srv.WriteBufferSize = 8192
	srv.NoDefaultServerHeader = true
	srv.NoDefaultDate = true
	srv.NoDefaultContentType = true

	return app
}

// startMetricsListener serves promhttp on its own port so scrapes
// never contend with decision traffic.
func startMetricsListener(port int, logger *logrus.Logger) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())

	app.Get("/metrics", func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())(c.Context())
		return nil
	})

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			if !strings.Contains(err.Error(), "address already in use") {
				logger.WithError(err).Error("failed to start metrics listener")
			}
		}
	}()
}
