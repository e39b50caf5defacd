package service

import (
	"context"
	"strings"

	"airtecs/internal/models"
	"airtecs/internal/repository"
)

// CatalogService exposes the service-type catalog customers pick from.
type CatalogService struct {
	catalog repository.CatalogRepository
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// List returns all service types.
func (s *CatalogService) List(ctx context.Context) ([]models.ServiceType, error) {
	types, err := s.catalog.List(ctx)
	if err != nil {
		return nil, models.NewUnavailableError("catalog unavailable", err)
	}
	return types, nil
}

// Create registers a new service type with its fixed price.
func (s *CatalogService) Create(ctx context.Context, name, description string, amount float64) (*models.ServiceType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Service type name is required")
	}
	if amount <= 0 {
		return nil, models.NewValidationError("Amount must be positive")
	}

	serviceType := &models.ServiceType{Name: name, Description: description, Amount: amount}
	if err := s.catalog.Create(ctx, serviceType); err != nil {
		return nil, models.NewUnavailableError("catalog unavailable", err)
	}
	return serviceType, nil
}
