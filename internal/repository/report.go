package repository

import (
	"context"

	"airtecs/internal/models"

	"gorm.io/gorm"
)

// ReportRepository stores customer complaints against technicians.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListByRequest(ctx context.Context, requestID string) ([]models.Report, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) ListByRequest(ctx context.Context, requestID string) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}
