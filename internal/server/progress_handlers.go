package server

import (
	"airtecs/internal/models"

	"github.com/gofiber/fiber/v2"
)

type advanceProgressBody struct {
	Stage            string `json:"stage"`
	ConfirmationCode string `json:"confirmation_code"`
	Detail           string `json:"detail"`
}

// AdvanceProgress handles POST /api/requests/:id/progress
func (s *Server) AdvanceProgress(c *fiber.Ctx) error {
	ctx := c.Context()
	technicianID := c.Locals("userID").(uint)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body advanceProgressBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, advanceErr := s.progressService.Advance(ctx, requestID, technicianID,
		body.Stage, body.ConfirmationCode, body.Detail)
	if advanceErr != nil {
		return models.RespondWithAppError(c, advanceErr)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetProgressHistory handles GET /api/requests/:id/progress
func (s *Server) GetProgressHistory(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID, role := s.actor(c)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	entries, histErr := s.progressService.History(ctx, requestID, actorID, role)
	if histErr != nil {
		return models.RespondWithAppError(c, histErr)
	}

	return c.JSON(entries)
}
