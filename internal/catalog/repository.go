package catalog

import (
	"context"

	"github.com/floracare/storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the product catalog.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// List returns the full catalog newest-first, matching the convention the
// storefront pages expect from the product source.
func (r *gormRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads a single product row.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
