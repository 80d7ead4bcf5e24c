package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/config"
	"github.com/threadworks/gatehouse/pkg/infra/prometheus"
	"github.com/threadworks/gatehouse/pkg/server/router"
)

type (
	GateServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	GateServer struct {
		config *config.Config
		logger *logrus.Logger
		app    *fiber.App
	}
)

func NewGateServer(di GateServerDI) *GateServer {
	if di.Config.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{
			EnableLatency:  di.Config.Metrics.EnableLatency,
			EnableVerdicts: di.Config.Metrics.EnableVerdicts,
			EnablePerCheck: di.Config.Metrics.EnablePerCheck,
			EnableLookups:  di.Config.Metrics.EnableLookups,
		})
	}

	s := &GateServer{
		config: di.Config,
		logger: di.Logger,
		app:    newDecisionApp(),
	}

	for _, r := range di.Routers {
		if err := r.BuildRoutes(s.app); err != nil {
			s.logger.WithError(err).Error("failed to build routes")
		}
	}

	if di.Config.Metrics.Enabled {
		startMetricsListener(di.Config.Server.MetricsPort, di.Logger)
	} else {
		di.Logger.Info("prometheus metrics are disabled by configuration")
	}

	return s
}

func (s *GateServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("starting gate server")
	return s.app.Listen(addr)
}

func (s *GateServer) Shutdown() error {
	return s.app.Shutdown()
}
