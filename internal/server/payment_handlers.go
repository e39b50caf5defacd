package server

import (
	"airtecs/internal/models"

	"github.com/gofiber/fiber/v2"
)

type settlePaymentBody struct {
	Method models.PaymentMethod `json:"method"`
	Amount float64              `json:"amount"`
}

// SettlePayment handles POST /api/requests/:id/payment
func (s *Server) SettlePayment(c *fiber.Ctx) error {
	ctx := c.Context()
	customerID := c.Locals("userID").(uint)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body settlePaymentBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Cash and transfer settle asynchronously; the deferred_payments flag
	// lets operations restrict rollout. An unconfigured flag means allowed.
	if body.Method != models.PaymentMethodCard &&
		s.featureFlags.Configured("deferred_payments") &&
		!s.featureFlags.Enabled("deferred_payments", customerID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Cash and transfer payments are not available for your account yet"))
	}

	payment, settleErr := s.paymentService.Settle(ctx, requestID, customerID, body.Method, body.Amount)
	if settleErr != nil {
		return models.RespondWithAppError(c, settleErr)
	}

	return c.JSON(payment)
}

// GetPayment handles GET /api/requests/:id/payment
func (s *Server) GetPayment(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID, role := s.actor(c)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	payment, getErr := s.paymentService.PaymentForRequest(ctx, requestID, actorID, role)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}

	return c.JSON(payment)
}

// GetEarnings handles GET /api/technicians/me/earnings
func (s *Server) GetEarnings(c *fiber.Ctx) error {
	ctx := c.Context()
	technicianID := c.Locals("userID").(uint)

	list, err := s.paymentService.Earnings(ctx, technicianID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	total := 0.0
	for _, p := range list {
		total += p.Amount
	}

	return c.JSON(fiber.Map{
		"total":    total,
		"payments": list,
	})
}
