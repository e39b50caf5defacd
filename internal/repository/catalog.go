package repository

import (
	"context"

	"airtecs/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository exposes the service type catalog.
type CatalogRepository interface {
	GetByID(ctx context.Context, id uint) (*models.ServiceType, error)
	List(ctx context.Context) ([]models.ServiceType, error)
	Create(ctx context.Context, st *models.ServiceType) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// GetByID returns the catalog entry, or nil when the id is unknown.
func (r *catalogRepository) GetByID(ctx context.Context, id uint) (*models.ServiceType, error) {
	var st models.ServiceType
	if err := r.db.WithContext(ctx).First(&st, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (r *catalogRepository) List(ctx context.Context) ([]models.ServiceType, error) {
	var types []models.ServiceType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *catalogRepository) Create(ctx context.Context, st *models.ServiceType) error {
	return r.db.WithContext(ctx).Create(st).Error
}
