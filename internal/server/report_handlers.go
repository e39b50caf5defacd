package server

import (
	"airtecs/internal/models"

	"github.com/gofiber/fiber/v2"
)

type fileReportBody struct {
	Description string `json:"description"`
}

// FileReport handles POST /api/requests/:id/report
func (s *Server) FileReport(c *fiber.Ctx) error {
	ctx := c.Context()
	customerID := c.Locals("userID").(uint)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body fileReportBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, fileErr := s.reportService.File(ctx, requestID, customerID, body.Description)
	if fileErr != nil {
		return models.RespondWithAppError(c, fileErr)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}
