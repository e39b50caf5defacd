package server

import (
	"airtecs/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/technicians/me/profile
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	technicianID := c.Locals("userID").(uint)

	profile, err := s.profileService.Get(ctx, technicianID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

type upsertProfileBody struct {
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

// UpsertMyProfile handles PUT /api/technicians/me/profile
func (s *Server) UpsertMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	technicianID := c.Locals("userID").(uint)

	var body upsertProfileBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Upsert(ctx, technicianID, body.FullName, body.Phone, body.Specialty)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}
