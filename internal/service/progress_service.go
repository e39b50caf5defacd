package service

import (
	"context"

	"airtecs/internal/middleware"
	"airtecs/internal/models"
	"airtecs/internal/notifications"
	"airtecs/internal/repository"
)

// ProgressService records the technician's stage advances against an assigned
// request. Stages advance strictly one step at a time and the on-site and
// completion stages require the customer's confirmation code.
type ProgressService struct {
	requests repository.RequestRepository
	progress repository.ProgressRepository
	relay    *notifications.Relay
}

// NewProgressService creates a new progress tracking service.
func NewProgressService(
	requests repository.RequestRepository,
	progress repository.ProgressRepository,
	relay *notifications.Relay,
) *ProgressService {
	return &ProgressService{requests: requests, progress: progress, relay: relay}
}

// Advance records the next stage for a request. It validates the stage name,
// the caller's assignment, the confirmation code where required, and strict
// single-step ordering before flipping the request status.
func (s *ProgressService) Advance(ctx context.Context, requestID string, technicianID uint, rawStage, code, detail string) (*models.ProgressEntry, error) {
	stage, ok := models.ParseStage(rawStage)
	if !ok {
		return nil, models.NewValidationError("Unknown stage: " + rawStage)
	}

	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.TechnicianID == nil || *req.TechnicianID != technicianID {
		return nil, models.NewForbiddenError("Request is not assigned to you")
	}
	if !req.Status.Working() {
		return nil, models.NewConflictError("Request is not in progress")
	}

	if stage.RequiresConfirmationCode() && code != req.ConfirmationCode {
		return nil, models.NewValidationError("Invalid confirmation code")
	}

	last, found, err := s.progress.LastStage(ctx, requestID)
	if err != nil {
		return nil, models.NewUnavailableError("progress store unavailable", err)
	}
	lastIndex := -1
	if found {
		lastIndex = models.StageIndex(last)
	}
	if models.StageIndex(stage) != lastIndex+1 {
		return nil, models.NewConflictError("Stages must be reported in order")
	}

	// Flip the status first: if a concurrent advance already moved the
	// request, the conditional update loses and no entry is written.
	ok, err = s.requests.UpdateStatus(ctx, requestID, req.Status, stage.Status(), nil)
	if err != nil {
		return nil, models.NewUnavailableError("request store unavailable", err)
	}
	if !ok {
		middleware.ConflictRejections.WithLabelValues("advance").Inc()
		return nil, models.NewConflictError("Request state changed, reload and retry")
	}

	entry := &models.ProgressEntry{
		RequestID:    requestID,
		TechnicianID: technicianID,
		Stage:        stage,
		Detail:       detail,
	}
	if err := s.progress.Append(ctx, entry); err != nil {
		return nil, models.NewUnavailableError("progress store unavailable", err)
	}

	middleware.LifecycleTransitions.WithLabelValues(string(stage)).Inc()
	s.relay.NotifyStage(ctx, req.CustomerID, stage, detail)
	return entry, nil
}

// History returns the ordered progress timeline for a request. Both the
// customer who owns the request and the assigned technician may read it.
func (s *ProgressService) History(ctx context.Context, requestID string, actorID uint, actorRole string) ([]models.ProgressEntry, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	switch actorRole {
	case RoleCustomer:
		if req.CustomerID != actorID {
			return nil, models.NewForbiddenError("You can only view your own requests")
		}
	case RoleTechnician:
		if req.TechnicianID == nil || *req.TechnicianID != actorID {
			return nil, models.NewForbiddenError("Request is not assigned to you")
		}
	default:
		return nil, models.NewForbiddenError("Unknown role")
	}

	entries, err := s.progress.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, models.NewUnavailableError("progress store unavailable", err)
	}
	return entries, nil
}

func (s *ProgressService) loadRequest(ctx context.Context, requestID string) (*models.ServiceRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, translateLoadError(err, requestID)
	}
	return req, nil
}
