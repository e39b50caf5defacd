package service

import (
	"context"
	"strings"

	"airtecs/internal/models"
	"airtecs/internal/repository"
	"airtecs/internal/validation"
)

// ProfileService maintains technician profiles. A technician cannot accept
// requests until their profile is complete.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the technician's profile.
func (s *ProfileService) Get(ctx context.Context, technicianID uint) (*models.TechnicianProfile, error) {
	profile, err := s.profiles.GetByTechnician(ctx, technicianID)
	if err != nil {
		return nil, models.NewUnavailableError("profile store unavailable", err)
	}
	if profile == nil {
		return nil, models.NewNotFoundError("Technician profile", technicianID)
	}
	return profile, nil
}

// Upsert creates or replaces the technician's profile.
func (s *ProfileService) Upsert(ctx context.Context, technicianID uint, fullName, phone, specialty string) (*models.TechnicianProfile, error) {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	specialty = strings.TrimSpace(specialty)
	if fullName == "" || phone == "" || specialty == "" {
		return nil, models.NewValidationError("Full name, phone and specialty are required")
	}
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	profile := &models.TechnicianProfile{
		TechnicianID: technicianID,
		FullName:     fullName,
		Phone:        phone,
		Specialty:    specialty,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, models.NewUnavailableError("profile store unavailable", err)
	}
	return profile, nil
}
