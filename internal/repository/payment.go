package repository

import (
	"context"
	"time"

	"airtecs/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByRequestID(ctx context.Context, requestID string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id string, expected, next models.PaymentStatus, reference string, paidAt *time.Time) (bool, error)
	ListConfirmedByTechnician(ctx context.Context, technicianID uint) ([]models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByRequestID returns the payment row for the request, or nil when none exists.
func (r *paymentRepository) GetByRequestID(ctx context.Context, requestID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "request_id = ?", requestID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// UpdateStatus flips the payment status only when the stored status matches
// the expectation, so a retried settlement can never double-confirm.
func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, expected, next models.PaymentStatus, reference string, paidAt *time.Time) (bool, error) {
	updates := map[string]interface{}{"status": next}
	if reference != "" {
		updates["reference"] = reference
	}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *paymentRepository) ListConfirmedByTechnician(ctx context.Context, technicianID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("technician_id = ? AND status = ?", technicianID, models.PaymentStatusConfirmed).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}
