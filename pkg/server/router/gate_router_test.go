package router

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "github.com/threadworks/gatehouse/pkg/handlers/http"
	"github.com/threadworks/gatehouse/pkg/middleware"
)

type stubHandler struct {
	status int
	hits   int
}

func (h *stubHandler) Handle(c *fiber.Ctx) error {
	h.hits++
	return c.SendStatus(h.status)
}

func newTestTransport() (handlers.HandlerTransport, *stubHandler) {
	gate := &stubHandler{status: fiber.StatusOK}
	ok := func() handlers.Handler { return &stubHandler{status: fiber.StatusOK} }
	return handlers.HandlerTransport{
		CheckFloodHandler:      ok(),
		CheckModerationHandler: ok(),
		CheckDisallowedHandler: ok(),
		GateHandler:            gate,
		GetVersionHandler:      ok(),
		InvalidateCacheHandler: ok(),
	}, gate
}

func newTestMiddleware() *middleware.Transport {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return &middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
		TraceMiddleware:        middleware.NewTraceMiddleware(logger),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
	}
}

func TestGateRouter_BuildRoutes(t *testing.T) {
	transport, gate := newTestTransport()
	app := fiber.New()

	require.NoError(t, NewGateRouter(newTestMiddleware(), transport).BuildRoutes(app))

	resp, err := app.Test(httptest.NewRequest("GET", HealthPath, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", PingPath, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/v1/gate", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, gate.hits)

	for _, path := range []string{
		"/api/v1/checks/flood",
		"/api/v1/checks/moderation",
		"/api/v1/checks/disallowed",
	} {
		resp, err = app.Test(httptest.NewRequest("POST", path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	resp, err = app.Test(httptest.NewRequest("GET", VersionPath, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateRouter_BuildRoutes_MissingHandler(t *testing.T) {
	transport, _ := newTestTransport()
	transport.GateHandler = nil

	err := NewGateRouter(newTestMiddleware(), transport).BuildRoutes(fiber.New())

	assert.ErrorIs(t, err, ErrMissingHandler)
}
