package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/handlers/http/request"
	"github.com/threadworks/gatehouse/pkg/handlers/http/response"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

const floodRejectionMessage = "you are posting too quickly, wait before posting again"

type checkFloodHandler struct {
	logger  *logrus.Logger
	checker moderation.Checker
}

func NewCheckFloodHandler(logger *logrus.Logger, checker moderation.Checker) Handler {
	return &checkFloodHandler{
		logger:  logger,
		checker: checker,
	}
}

// Handle answers whether the actor may post again yet. Nothing is
// recorded here; the gate endpoint stores the post time on acceptance.
func (h *checkFloodHandler) Handle(c *fiber.Ctx) error {
	start := time.Now()

	var req request.FloodCheckRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind flood check request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	allowed, err := h.checker.CheckFlood(c.Context(), req.ActorID)
	if err != nil {
		h.logger.WithError(err).Error("flood check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to run flood check"})
	}

	recordCheckMetrics("flood", allowed, "", start)
	return c.Status(fiber.StatusOK).JSON(response.NewFloodVerdict(allowed, floodRejectionMessage))
}
