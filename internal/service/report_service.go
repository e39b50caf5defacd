package service

import (
	"context"
	"strings"

	"airtecs/internal/models"
	"airtecs/internal/repository"
)

// ReportService files customer complaints against technicians. A report is
// only accepted from the customer who owns the request, and only once a
// technician is bound to it.
type ReportService struct {
	requests repository.RequestRepository
	reports  repository.ReportRepository
}

// NewReportService creates a new report service.
func NewReportService(requests repository.RequestRepository, reports repository.ReportRepository) *ReportService {
	return &ReportService{requests: requests, reports: reports}
}

// File records a complaint from the customer against the technician assigned
// to their request.
func (s *ReportService) File(ctx context.Context, requestID string, customerID uint, description string) (*models.Report, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, models.NewValidationError("A description of the problem is required")
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, translateLoadError(err, requestID)
	}
	if req.CustomerID != customerID {
		return nil, models.NewForbiddenError("You can only report technicians on your own requests")
	}
	if req.TechnicianID == nil {
		return nil, models.NewConflictError("No technician is assigned to this request")
	}

	report := &models.Report{
		RequestID:    req.ID,
		CustomerID:   customerID,
		TechnicianID: *req.TechnicianID,
		Description:  description,
		Status:       models.ReportStatusOpen,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, models.NewUnavailableError("report store unavailable", err)
	}
	return report, nil
}
