package orders

import (
	"context"

	"github.com/floracare/storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the order sink. Create is called exactly once per successful
// checkout; the storefront never updates an order afterward.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (uuid.UUID, error)
	List(ctx context.Context) ([]models.Order, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds an order repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts the order row and returns its identifier.
func (r *gormRepository) Create(ctx context.Context, order *models.Order) (uuid.UUID, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}

// List returns submitted orders newest-first. Shop-owner read surface only.
func (r *gormRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
