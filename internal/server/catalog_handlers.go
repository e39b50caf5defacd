package server

import (
	"airtecs/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetServiceTypes handles GET /api/service-types
func (s *Server) GetServiceTypes(c *fiber.Ctx) error {
	ctx := c.Context()

	types, err := s.catalogService.List(ctx)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(types)
}

type createServiceTypeBody struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// CreateServiceType handles POST /api/admin/service-types
func (s *Server) CreateServiceType(c *fiber.Ctx) error {
	ctx := c.Context()

	var body createServiceTypeBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	serviceType, err := s.catalogService.Create(ctx, body.Name, body.Description, body.Amount)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(serviceType)
}
