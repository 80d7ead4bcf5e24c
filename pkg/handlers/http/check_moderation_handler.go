package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/handlers/http/request"
	"github.com/threadworks/gatehouse/pkg/handlers/http/response"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

type checkModerationHandler struct {
	logger  *logrus.Logger
	checker moderation.Checker
}

func NewCheckModerationHandler(logger *logrus.Logger, checker moderation.Checker) Handler {
	return &checkModerationHandler{
		logger:  logger,
		checker: checker,
	}
}

// Handle runs the link-count and moderation-keyword rules over one
// submission and returns the verdict.
func (h *checkModerationHandler) Handle(c *fiber.Ctx) error {
	start := time.Now()

	var req request.SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind moderation check request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	result, err := h.checker.CheckModeration(c.Context(), req.ToSubmission(c))
	if err != nil {
		h.logger.WithError(err).Error("moderation check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to run moderation check"})
	}

	recordCheckMetrics("moderation", result.Allowed, result.Kind, start)
	return c.Status(fiber.StatusOK).JSON(response.NewVerdictResponse(result))
}
