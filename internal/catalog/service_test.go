package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/floracare/storefront/pkg/db/models"
	"github.com/floracare/storefront/pkg/enums"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubRepository struct {
	products []models.Product
	listErr  error
	findErr  error
}

func (s stubRepository) List(ctx context.Context) ([]models.Product, error) {
	return s.products, s.listErr
}

func (s stubRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestBrowseAppliesFilter(t *testing.T) {
	svc, err := NewService(stubRepository{products: fixtureProducts()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Browse(context.Background(), "", "perfume")
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(got) != 1 || got[0].Category != enums.ProductCategoryPerfume {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestBrowseWrapsRepositoryError(t *testing.T) {
	svc, err := NewService(stubRepository{listErr: errors.New("connection refused")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Browse(context.Background(), "", "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error got %v", err)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc, err := NewService(stubRepository{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestGetProductSuccess(t *testing.T) {
	products := fixtureProducts()
	svc, err := NewService(stubRepository{products: products})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	product, err := svc.GetProduct(context.Background(), products[0].ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Name != products[0].Name {
		t.Fatalf("unexpected product: %s", product.Name)
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}
