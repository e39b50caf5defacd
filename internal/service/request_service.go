// Package service implements the service-request lifecycle state machine.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"airtecs/internal/middleware"
	"airtecs/internal/models"
	"airtecs/internal/notifications"
	"airtecs/internal/repository"
	"airtecs/internal/validation"

	"gorm.io/gorm"
)

// PendingTTL is how long a pending request waits for a technician before the
// expiry sweep removes it.
const PendingTTL = 12 * time.Hour

// RequestService governs creation, assignment, cancellation and expiry of
// service requests. Every state transition goes through a conditional update
// so concurrent actors race safely: exactly one wins, the rest get a conflict.
type RequestService struct {
	requests repository.RequestRepository
	progress repository.ProgressRepository
	catalog  repository.CatalogRepository
	profiles repository.ProfileRepository
	relay    *notifications.Relay
	now      func() time.Time
}

// NewRequestService creates a new request lifecycle service.
func NewRequestService(
	requests repository.RequestRepository,
	progress repository.ProgressRepository,
	catalog repository.CatalogRepository,
	profiles repository.ProfileRepository,
	relay *notifications.Relay,
) *RequestService {
	return &RequestService{
		requests: requests,
		progress: progress,
		catalog:  catalog,
		profiles: profiles,
		relay:    relay,
		now:      time.Now,
	}
}

// CreateRequestInput carries the customer-provided fields of a new request.
type CreateRequestInput struct {
	CustomerID     uint
	ServiceTypeID  uint
	ApplianceBrand string
	ApplianceType  string
	Description    string
	Address        string
	ScheduledDate  string
	ScheduledTime  string
}

// Create validates and persists a new pending request. The amount is resolved
// from the service catalog and frozen on the request.
func (s *RequestService) Create(ctx context.Context, in CreateRequestInput) (*models.ServiceRequest, error) {
	if in.ServiceTypeID == 0 || strings.TrimSpace(in.Address) == "" ||
		strings.TrimSpace(in.ApplianceBrand) == "" || strings.TrimSpace(in.ApplianceType) == "" ||
		in.ScheduledDate == "" || in.ScheduledTime == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateScheduledDate(in.ScheduledDate, s.now()); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateScheduledTime(in.ScheduledTime); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	active, err := s.requests.FindActiveByCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}
	if active != nil {
		return nil, models.NewConflictError("You already have an active service request")
	}

	serviceType, err := s.catalog.GetByID(ctx, in.ServiceTypeID)
	if err != nil {
		return nil, models.NewUnavailableError("catalog unavailable", err)
	}
	if serviceType == nil {
		return nil, models.NewNotFoundError("Service type", in.ServiceTypeID)
	}

	now := s.now()
	req := &models.ServiceRequest{
		CustomerID:     in.CustomerID,
		ServiceTypeID:  serviceType.ID,
		ServiceName:    serviceType.Name,
		Status:         models.RequestStatusPending,
		Amount:         serviceType.Amount,
		ApplianceBrand: in.ApplianceBrand,
		ApplianceType:  in.ApplianceType,
		Description:    in.Description,
		Address:        in.Address,
		ScheduledDate:  in.ScheduledDate,
		ScheduledTime:  in.ScheduledTime,
		ExpiresAt:      now.Add(PendingTTL),
	}
	if err := s.requests.Insert(ctx, req); err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}

	middleware.LifecycleTransitions.WithLabelValues("create").Inc()
	return req, nil
}

// Assign binds a technician to a pending request, generating the confirmation
// code the customer will share on site. Exactly one of any set of concurrent
// callers succeeds.
func (s *RequestService) Assign(ctx context.Context, requestID string, technicianID uint) (*models.ServiceRequest, error) {
	profile, err := s.profiles.GetByTechnician(ctx, technicianID)
	if err != nil {
		return nil, models.NewUnavailableError("profile store unavailable", err)
	}
	if profile == nil || !profile.Complete() {
		return nil, models.NewForbiddenError("Complete your profile before accepting service requests")
	}

	working, err := s.requests.FindWorkingByTechnician(ctx, technicianID)
	if err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}
	if working != nil {
		return nil, models.NewConflictError("You already have an active assignment")
	}

	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusPending {
		return nil, models.NewConflictError("Request has already been accepted")
	}

	code := generateConfirmationCode()
	ok, err := s.requests.UpdateStatus(ctx, requestID,
		models.RequestStatusPending, models.RequestStatusAssigned,
		map[string]interface{}{
			"technician_id":     technicianID,
			"confirmation_code": code,
		})
	if err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}
	if !ok {
		// Lost the race: someone else accepted between our read and write.
		middleware.ConflictRejections.WithLabelValues("assign").Inc()
		return nil, models.NewConflictError("Request has already been accepted")
	}

	middleware.LifecycleTransitions.WithLabelValues("assign").Inc()
	s.relay.NotifyAssigned(ctx, req.CustomerID, code)

	req.Status = models.RequestStatusAssigned
	req.TechnicianID = &technicianID
	req.ConfirmationCode = code
	return req, nil
}

// Cancel removes a request that has not progressed past assignment. A
// customer may cancel their own request; a technician only one assigned to
// them. Once any progress entry exists the request can no longer be
// cancelled.
func (s *RequestService) Cancel(ctx context.Context, requestID string, actorID uint, actorRole string) error {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}

	switch actorRole {
	case RoleCustomer:
		if req.CustomerID != actorID {
			return models.NewForbiddenError("You can only cancel your own requests")
		}
	case RoleTechnician:
		if req.TechnicianID == nil || *req.TechnicianID != actorID {
			return models.NewForbiddenError("You can only cancel requests assigned to you")
		}
	default:
		return models.NewForbiddenError("Unknown role")
	}

	if req.Status != models.RequestStatusPending && req.Status != models.RequestStatusAssigned {
		return models.NewConflictError("Request can no longer be cancelled")
	}

	count, err := s.progress.CountByRequest(ctx, requestID)
	if err != nil {
		return models.NewUnavailableError("progress store unavailable", err)
	}
	if count > 0 {
		return models.NewConflictError("Cannot cancel: the technician is already en route")
	}

	ok, err := s.requests.ConditionalDelete(ctx, requestID,
		[]models.RequestStatus{models.RequestStatusPending, models.RequestStatusAssigned})
	if err != nil {
		return models.NewUnavailableError("request store unavailable", err)
	}
	if !ok {
		middleware.ConflictRejections.WithLabelValues("cancel").Inc()
		return models.NewConflictError("Request can no longer be cancelled")
	}

	middleware.LifecycleTransitions.WithLabelValues("cancel").Inc()
	if actorRole == RoleTechnician {
		s.relay.Notify(ctx, req.CustomerID, "The technician cancelled your service request.")
	}
	return nil
}

// ExpireSweep deletes pending requests past their expiry timestamp and
// notifies the owning customers. The delete is conditional on the request
// still being pending, so a concurrent assignment always wins over the sweep.
func (s *RequestService) ExpireSweep(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.requests.FindPendingExpired(ctx, now)
	if err != nil {
		return 0, models.NewUnavailableError("request store unavailable", err)
	}

	deleted := 0
	for _, req := range expired {
		ok, err := s.requests.ConditionalDelete(ctx, req.ID,
			[]models.RequestStatus{models.RequestStatusPending})
		if err != nil {
			return deleted, models.NewUnavailableError("request store unavailable", err)
		}
		if !ok {
			continue
		}
		deleted++
		middleware.ExpiredRequestsSwept.Inc()
		s.relay.NotifyExpired(ctx, req.CustomerID)
	}
	return deleted, nil
}

// ActiveForCustomer returns the customer's current non-terminal request.
func (s *RequestService) ActiveForCustomer(ctx context.Context, customerID uint) (*models.ServiceRequest, error) {
	req, err := s.requests.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}
	if req == nil {
		return nil, models.NewNotFoundError("Active request for customer", customerID)
	}
	return req, nil
}

// ListPending returns pending requests for technicians to browse.
func (s *RequestService) ListPending(ctx context.Context, limit, offset int) ([]models.ServiceRequest, error) {
	reqs, err := s.requests.ListByStatus(ctx, models.RequestStatusPending, limit, offset)
	if err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}
	return reqs, nil
}

// ListForTechnician returns the technician's requests in the given statuses.
func (s *RequestService) ListForTechnician(ctx context.Context, technicianID uint, statuses []models.RequestStatus) ([]models.ServiceRequest, error) {
	reqs, err := s.requests.ListByTechnician(ctx, technicianID, statuses)
	if err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}
	return reqs, nil
}

// Get loads a single request, distinguishing a missing row from a store
// outage.
func (s *RequestService) Get(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	return s.loadRequest(ctx, requestID)
}

func (s *RequestService) loadRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, translateLoadError(err, requestID)
	}
	return req, nil
}

func translateLoadError(err error, requestID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Service request", requestID)
	}
	return models.NewUnavailableError("request store unavailable", err)
}

// generateConfirmationCode returns 6 uppercase hex characters (24 bits of
// entropy), enough to resist casual guessing over a request's lifetime.
func generateConfirmationCode() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
