package repository

import (
	"context"

	"airtecs/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository backs the technician profile completeness gate.
type ProfileRepository interface {
	GetByTechnician(ctx context.Context, technicianID uint) (*models.TechnicianProfile, error)
	Upsert(ctx context.Context, profile *models.TechnicianProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByTechnician returns the profile, or nil when none has been created yet.
func (r *profileRepository) GetByTechnician(ctx context.Context, technicianID uint) (*models.TechnicianProfile, error) {
	var profile models.TechnicianProfile
	err := r.db.WithContext(ctx).First(&profile, "technician_id = ?", technicianID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.TechnicianProfile) error {
	existing, err := r.GetByTechnician(ctx, profile.TechnicianID)
	if err != nil {
		return err
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	return r.db.WithContext(ctx).Save(profile).Error
}
