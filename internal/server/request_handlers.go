package server

import (
	"airtecs/internal/models"
	"airtecs/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createRequestBody struct {
	ServiceTypeID  uint   `json:"service_type_id"`
	ApplianceBrand string `json:"appliance_brand"`
	ApplianceType  string `json:"appliance_type"`
	Description    string `json:"description"`
	Address        string `json:"address"`
	ScheduledDate  string `json:"scheduled_date"`
	ScheduledTime  string `json:"scheduled_time"`
}

// CreateRequest handles POST /api/requests
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	customerID := c.Locals("userID").(uint)

	var body createRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req, err := s.requestService.Create(ctx, service.CreateRequestInput{
		CustomerID:     customerID,
		ServiceTypeID:  body.ServiceTypeID,
		ApplianceBrand: body.ApplianceBrand,
		ApplianceType:  body.ApplianceType,
		Description:    body.Description,
		Address:        body.Address,
		ScheduledDate:  body.ScheduledDate,
		ScheduledTime:  body.ScheduledTime,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(req)
}

// GetActiveRequest handles GET /api/requests/active
func (s *Server) GetActiveRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	customerID := c.Locals("userID").(uint)

	req, err := s.requestService.ActiveForCustomer(ctx, customerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(req)
}

// GetPendingRequests handles GET /api/requests/pending
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	reqs, err := s.requestService.ListPending(ctx, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(reqs)
}

// GetAssignedRequests handles GET /api/requests/assigned
func (s *Server) GetAssignedRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	technicianID := c.Locals("userID").(uint)

	reqs, err := s.requestService.ListForTechnician(ctx, technicianID, models.WorkingStatuses)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(reqs)
}

// GetCompletedRequests handles GET /api/technicians/me/completed
func (s *Server) GetCompletedRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	technicianID := c.Locals("userID").(uint)

	finished := []models.RequestStatus{models.RequestStatusCompleted, models.RequestStatusPaid}
	reqs, err := s.requestService.ListForTechnician(ctx, technicianID, finished)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(reqs)
}

// GetRequest handles GET /api/requests/:id
func (s *Server) GetRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID, role := s.actor(c)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	req, loadErr := s.requestService.Get(ctx, requestID)
	if loadErr != nil {
		return models.RespondWithAppError(c, loadErr)
	}

	switch role {
	case service.RoleCustomer:
		if req.CustomerID != actorID {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You can only view your own requests"))
		}
	case service.RoleTechnician:
		// Technicians may inspect pending requests before accepting them.
		if req.Status != models.RequestStatusPending &&
			(req.TechnicianID == nil || *req.TechnicianID != actorID) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Request is not assigned to you"))
		}
	}

	return c.JSON(req)
}

// AcceptRequest handles POST /api/requests/:id/accept
func (s *Server) AcceptRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	technicianID := c.Locals("userID").(uint)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	req, acceptErr := s.requestService.Assign(ctx, requestID, technicianID)
	if acceptErr != nil {
		return models.RespondWithAppError(c, acceptErr)
	}

	// The confirmation code is sent to the customer only; the technician
	// collects it on site.
	return c.JSON(req)
}

// CancelRequest handles DELETE /api/requests/:id
func (s *Server) CancelRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	actorID, role := s.actor(c)
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	if cancelErr := s.requestService.Cancel(ctx, requestID, actorID, role); cancelErr != nil {
		return models.RespondWithAppError(c, cancelErr)
	}

	return c.JSON(fiber.Map{"message": "Request cancelled"})
}
