package repository

import (
	"context"

	"airtecs/internal/models"

	"gorm.io/gorm"
)

// ProgressRepository defines the interface for append-only progress history.
type ProgressRepository interface {
	Append(ctx context.Context, entry *models.ProgressEntry) error
	ListByRequest(ctx context.Context, requestID string) ([]models.ProgressEntry, error)
	LastStage(ctx context.Context, requestID string) (models.Stage, bool, error)
	CountByRequest(ctx context.Context, requestID string) (int64, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Append(ctx context.Context, entry *models.ProgressEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *progressRepository) ListByRequest(ctx context.Context, requestID string) ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

// LastStage returns the most recently recorded stage for the request. The
// second return value is false when no entry exists yet.
func (r *progressRepository) LastStage(ctx context.Context, requestID string) (models.Stage, bool, error) {
	var entry models.ProgressEntry
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("timestamp DESC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Stage, true, nil
}

func (r *progressRepository) CountByRequest(ctx context.Context, requestID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgressEntry{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return count, err
}
