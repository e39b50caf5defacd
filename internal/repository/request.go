// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"airtecs/internal/models"

	"gorm.io/gorm"
)

// RequestRepository defines the interface for service request data operations.
//
// UpdateStatus and ConditionalDelete are compare-and-swap primitives: they
// apply only when the stored status matches the expectation and report whether
// they did. They never interpret a non-match as an error; callers turn a false
// result into the appropriate domain error.
type RequestRepository interface {
	Insert(ctx context.Context, req *models.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*models.ServiceRequest, error)
	FindActiveByCustomer(ctx context.Context, customerID uint) (*models.ServiceRequest, error)
	FindWorkingByTechnician(ctx context.Context, technicianID uint) (*models.ServiceRequest, error)
	ListByStatus(ctx context.Context, status models.RequestStatus, limit, offset int) ([]models.ServiceRequest, error)
	ListByTechnician(ctx context.Context, technicianID uint, statuses []models.RequestStatus) ([]models.ServiceRequest, error)
	FindPendingExpired(ctx context.Context, now time.Time) ([]models.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id string, expected, next models.RequestStatus, fields map[string]interface{}) (bool, error)
	ConditionalDelete(ctx context.Context, id string, statuses []models.RequestStatus) (bool, error)
	Delete(ctx context.Context, id string) error
}

// requestRepository implements RequestRepository
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Insert(ctx context.Context, req *models.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindActiveByCustomer(ctx context.Context, customerID uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, models.ActiveStatuses).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindWorkingByTechnician(ctx context.Context, technicianID uint) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("technician_id = ? AND status IN ?", technicianID, models.WorkingStatuses).
		First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListByStatus(ctx context.Context, status models.RequestStatus, limit, offset int) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

func (r *requestRepository) ListByTechnician(ctx context.Context, technicianID uint, statuses []models.RequestStatus) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("technician_id = ? AND status IN ?", technicianID, statuses).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *requestRepository) FindPendingExpired(ctx context.Context, now time.Time) ([]models.ServiceRequest, error) {
	var reqs []models.ServiceRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", models.RequestStatusPending, now).
		Find(&reqs).Error
	return reqs, err
}

// UpdateStatus flips the request status only if the stored status equals
// expected. Extra fields (technician binding, confirmation code) ride along in
// the same conditional write so a lost race never applies them.
func (r *requestRepository) UpdateStatus(ctx context.Context, id string, expected, next models.RequestStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": next}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *requestRepository) ConditionalDelete(ctx context.Context, id string, statuses []models.RequestStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status IN ?", id, statuses).
		Delete(&models.ServiceRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ServiceRequest{}, "id = ?", id).Error
}
