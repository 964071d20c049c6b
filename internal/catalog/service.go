package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/floracare/storefront/pkg/db/models"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog reads to the HTTP layer.
type Service interface {
	Browse(ctx context.Context, query, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// Browse fetches the catalog once and filters it in memory, preserving the
// source ordering.
func (s *service) Browse(ctx context.Context, query, category string) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return Filter(products, query, category), nil
}

// GetProduct resolves one product for a detail view.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
