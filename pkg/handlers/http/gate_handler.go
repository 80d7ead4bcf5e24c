package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/app/option"
	"github.com/threadworks/gatehouse/pkg/handlers/http/request"
	"github.com/threadworks/gatehouse/pkg/handlers/http/response"
	"github.com/threadworks/gatehouse/pkg/infra/floodgate"
	"github.com/threadworks/gatehouse/pkg/moderation"
)

type gateHandler struct {
	logger   *logrus.Logger
	checker  moderation.Checker
	settings option.Provider
	flood    floodgate.Store
}

func NewGateHandler(
	logger *logrus.Logger,
	checker moderation.Checker,
	settings option.Provider,
	flood floodgate.Store,
) Handler {
	return &gateHandler{
		logger:   logger,
		checker:  checker,
		settings: settings,
		flood:    flood,
	}
}

// Handle is the combined per-submission gate: flood control, then the
// disallowed-keyword scan, then link count and moderation keywords.
// The first rejection wins. On acceptance the actor's last post time
// is recorded so the next flood check sees this submission.
func (h *gateHandler) Handle(c *fiber.Ctx) error {
	start := time.Now()

	var req request.SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to bind gate request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	sub := req.ToSubmission(c)

	allowed, err := h.checker.CheckFlood(c.Context(), sub.ActorID)
	if err != nil {
		h.logger.WithError(err).Error("flood check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to run flood check"})
	}
	if !allowed {
		recordCheckMetrics("gate", false, moderation.Kind(response.KindFlood), start)
		return c.Status(fiber.StatusOK).JSON(response.NewFloodVerdict(false, floodRejectionMessage))
	}

	result, err := h.checker.CheckDisallowed(c.Context(), sub)
	if err != nil {
		h.logger.WithError(err).Error("disallowed check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to run disallowed check"})
	}
	if !result.Allowed {
		recordCheckMetrics("gate", false, result.Kind, start)
		return c.Status(fiber.StatusOK).JSON(response.NewVerdictResponse(result))
	}

	result, err = h.checker.CheckModeration(c.Context(), sub)
	if err != nil {
		h.logger.WithError(err).Error("moderation check failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to run moderation check"})
	}
	if !result.Allowed {
		recordCheckMetrics("gate", false, result.Kind, start)
		return c.Status(fiber.StatusOK).JSON(response.NewVerdictResponse(result))
	}

	h.recordLastPost(c, sub.ActorID)

	recordCheckMetrics("gate", true, "", start)
	return c.Status(fiber.StatusOK).JSON(response.NewVerdictResponse(result))
}

// recordLastPost stores the accepted post time. Failures degrade flood
// control for one window instead of failing the accepted submission.
func (h *gateHandler) recordLastPost(c *fiber.Ctx, actorID string) {
	if moderation.IsAnonymous(actorID) {
		return
	}

	settings, err := h.settings.Settings(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load settings while recording last post time")
		return
	}

	window := time.Duration(settings.ThrottleSeconds) * time.Second
	if err := h.flood.RecordPost(c.Context(), actorID, time.Now(), window); err != nil {
		h.logger.WithError(err).WithField("actor_id", actorID).Error("failed to record last post time")
	}
}
