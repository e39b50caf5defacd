package service

import (
	"context"
	"time"

	"airtecs/internal/middleware"
	"airtecs/internal/models"
	"airtecs/internal/notifications"
	"airtecs/internal/payments"
	"airtecs/internal/repository"
)

// PaymentService settles completed requests. A unique payment row per request
// plus conditional status flips make settlement idempotent: repeated settle
// calls for a paid request are rejected, and a pending deferred payment is
// confirmed by a follow-up call instead of charged twice.
type PaymentService struct {
	requests repository.RequestRepository
	payments repository.PaymentRepository
	charger  payments.Charger
	relay    *notifications.Relay
	now      func() time.Time
}

// NewPaymentService creates a new payment settlement service.
func NewPaymentService(
	requests repository.RequestRepository,
	paymentRepo repository.PaymentRepository,
	charger payments.Charger,
	relay *notifications.Relay,
) *PaymentService {
	return &PaymentService{
		requests: requests,
		payments: paymentRepo,
		charger:  charger,
		relay:    relay,
		now:      time.Now,
	}
}

// Settle charges the customer for a completed request and moves it to paid.
// Card charges settle immediately; cash and transfer stay pending until a
// follow-up Settle call confirms them.
func (s *PaymentService) Settle(ctx context.Context, requestID string, customerID uint, method models.PaymentMethod, amount float64) (*models.Payment, error) {
	if !models.ValidPaymentMethod(method) {
		return nil, models.NewValidationError("Unknown payment method: " + string(method))
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, translateLoadError(err, requestID)
	}
	if req.CustomerID != customerID {
		return nil, models.NewForbiddenError("You can only pay for your own requests")
	}
	if req.Status == models.RequestStatusPaid {
		return nil, models.NewConflictError("Request has already been paid")
	}
	if req.Status != models.RequestStatusCompleted {
		return nil, models.NewConflictError("Service is not finished yet")
	}
	if amount != 0 && amount != req.Amount {
		return nil, models.NewValidationError("Amount does not match the agreed price")
	}

	existing, err := s.payments.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, models.NewUnavailableError("payment store unavailable", err)
	}

	switch {
	case existing == nil:
		return s.charge(ctx, req, method)
	case existing.Status == models.PaymentStatusConfirmed:
		return nil, models.NewConflictError("Request has already been paid")
	case existing.Status == models.PaymentStatusPending:
		return s.confirm(ctx, req, existing)
	default:
		// A previous charge failed; try again with a fresh charge.
		return s.retry(ctx, req, existing, method)
	}
}

func (s *PaymentService) charge(ctx context.Context, req *models.ServiceRequest, method models.PaymentMethod) (*models.Payment, error) {
	result, err := s.charger.Charge(ctx, req.ID, req.Amount, method)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		RequestID:    req.ID,
		TechnicianID: derefUint(req.TechnicianID),
		Amount:       req.Amount,
		Method:       method,
		Status:       result.Status,
		Reference:    result.Reference,
	}
	if result.Status == models.PaymentStatusConfirmed {
		now := s.now()
		payment.PaidAt = &now
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, models.NewUnavailableError("payment store unavailable", err)
	}

	if result.Status == models.PaymentStatusFailed {
		return nil, models.NewConflictError("Payment was declined")
	}
	if result.Status == models.PaymentStatusConfirmed {
		if err := s.markPaid(ctx, req); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

// confirm completes a previously deferred payment without re-charging.
func (s *PaymentService) confirm(ctx context.Context, req *models.ServiceRequest, payment *models.Payment) (*models.Payment, error) {
	now := s.now()
	ok, err := s.payments.UpdateStatus(ctx, payment.ID,
		models.PaymentStatusPending, models.PaymentStatusConfirmed,
		payment.Reference, &now)
	if err != nil {
		return nil, models.NewUnavailableError("payment store unavailable", err)
	}
	if !ok {
		middleware.ConflictRejections.WithLabelValues("settle").Inc()
		return nil, models.NewConflictError("Payment is no longer pending")
	}

	payment.Status = models.PaymentStatusConfirmed
	payment.PaidAt = &now
	if err := s.markPaid(ctx, req); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) retry(ctx context.Context, req *models.ServiceRequest, payment *models.Payment, method models.PaymentMethod) (*models.Payment, error) {
	result, err := s.charger.Charge(ctx, req.ID, req.Amount, method)
	if err != nil {
		return nil, err
	}
	if result.Status == models.PaymentStatusFailed {
		return nil, models.NewConflictError("Payment was declined")
	}

	var paidAt *time.Time
	if result.Status == models.PaymentStatusConfirmed {
		now := s.now()
		paidAt = &now
	}
	ok, err := s.payments.UpdateStatus(ctx, payment.ID,
		models.PaymentStatusFailed, result.Status, result.Reference, paidAt)
	if err != nil {
		return nil, models.NewUnavailableError("payment store unavailable", err)
	}
	if !ok {
		middleware.ConflictRejections.WithLabelValues("settle").Inc()
		return nil, models.NewConflictError("Payment state changed, reload and retry")
	}

	payment.Status = result.Status
	payment.Reference = result.Reference
	payment.PaidAt = paidAt
	if result.Status == models.PaymentStatusConfirmed {
		if err := s.markPaid(ctx, req); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

func (s *PaymentService) markPaid(ctx context.Context, req *models.ServiceRequest) error {
	ok, err := s.requests.UpdateStatus(ctx, req.ID,
		models.RequestStatusCompleted, models.RequestStatusPaid, nil)
	if err != nil {
		return models.NewUnavailableError("request store unavailable", err)
	}
	if !ok {
		middleware.ConflictRejections.WithLabelValues("settle").Inc()
		return models.NewConflictError("Request is no longer awaiting payment")
	}

	middleware.LifecycleTransitions.WithLabelValues("paid").Inc()
	s.relay.NotifyPaid(ctx, req.CustomerID)
	return nil
}

// PaymentForRequest returns the payment record tied to a request, if any.
func (s *PaymentService) PaymentForRequest(ctx context.Context, requestID string, actorID uint, actorRole string) (*models.Payment, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, translateLoadError(err, requestID)
	}
	switch actorRole {
	case RoleCustomer:
		if req.CustomerID != actorID {
			return nil, models.NewForbiddenError("You can only view your own payments")
		}
	case RoleTechnician:
		if req.TechnicianID == nil || *req.TechnicianID != actorID {
			return nil, models.NewForbiddenError("Request is not assigned to you")
		}
	default:
		return nil, models.NewForbiddenError("Unknown role")
	}

	payment, err := s.payments.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, models.NewUnavailableError("payment store unavailable", err)
	}
	if payment == nil {
		return nil, models.NewNotFoundError("Payment for request", requestID)
	}
	return payment, nil
}

// Earnings returns a technician's confirmed payments.
func (s *PaymentService) Earnings(ctx context.Context, technicianID uint) ([]models.Payment, error) {
	list, err := s.payments.ListConfirmedByTechnician(ctx, technicianID)
	if err != nil {
		return nil, models.NewUnavailableError("payment store unavailable", err)
	}
	return list, nil
}

func derefUint(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}
