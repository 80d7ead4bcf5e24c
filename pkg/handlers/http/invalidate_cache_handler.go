package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/threadworks/gatehouse/pkg/infra/cache"
)

type invalidateCacheHandler struct {
	logger *logrus.Logger
	cache  cache.Client
}

func NewInvalidateCacheHandler(
	logger *logrus.Logger,
	cache cache.Client,
) Handler {
	return &invalidateCacheHandler{
		logger: logger,
		cache:  cache,
	}
}

// Handle drops every cached member and option so the next check reads
// fresh rows. Called by operators after editing options directly.
func (h *invalidateCacheHandler) Handle(c *fiber.Ctx) error {
	h.logger.Info("invalidating caches")

	h.cache.ClearAllTTLMaps()

	if err := h.cache.InvalidateAll(c.Context()); err != nil {
		h.logger.WithError(err).Error("failed to invalidate cache")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to invalidate cache",
		})
	}

	h.logger.Info("cache invalidated successfully")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "cache invalidated successfully",
	})
}
