package server

import (
	"time"

	"airtecs/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RunExpireSweep handles POST /api/admin/sweep. The same sweep also runs on a
// schedule; this endpoint exists for operators who need it immediately.
func (s *Server) RunExpireSweep(c *fiber.Ctx) error {
	ctx := c.Context()

	deleted, err := s.requestService.ExpireSweep(ctx, time.Now())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"expired": deleted})
}

// PurgeNotifications handles POST /api/admin/notifications/purge
func (s *Server) PurgeNotifications(c *fiber.Ctx) error {
	ctx := c.Context()

	deleted, err := s.notificationService.PurgeExpired(ctx, time.Now())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"purged": deleted})
}
