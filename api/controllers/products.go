package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/floracare/storefront/api/responses"
	"github.com/floracare/storefront/internal/catalog"
	"github.com/floracare/storefront/pkg/db/models"
	pkgerrors "github.com/floracare/storefront/pkg/errors"
	"github.com/floracare/storefront/pkg/logger"
)

// Products serves the storefront catalog. With an `id` query parameter it
// returns the single product detail; an unknown or malformed id falls back to
// the filtered listing instead of erroring, matching how the shop front page
// recovers from stale links.
func Products(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		if rawID := strings.TrimSpace(r.URL.Query().Get("id")); rawID != "" {
			if id, err := uuid.Parse(rawID); err == nil {
				product, err := svc.GetProduct(r.Context(), id)
				if err == nil {
					responses.WriteSuccess(w, newProductResponse(*product))
					return
				}
				if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
		}

		products, err := svc.Browse(r.Context(), query, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(products))
	}
}

type productResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	ShortDescription string    `json:"short_description,omitempty"`
	Price            string    `json:"price"`
	Category         string    `json:"category"`
	Gender           *string   `json:"gender,omitempty"`
	Scent            string    `json:"scent,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	Ingredients      string    `json:"ingredients,omitempty"`
	Benefits         []string  `json:"benefits,omitempty"`
	Size             string    `json:"size,omitempty"`
	Stock            int       `json:"stock"`
	Featured         bool      `json:"featured"`
	CreatedAt        time.Time `json:"created_at"`
}

func newProductResponse(product models.Product) productResponse {
	var gender *string
	if product.Gender != nil {
		value := product.Gender.String()
		gender = &value
	}
	return productResponse{
		ID:               product.ID,
		Name:             product.Name,
		Description:      product.Description,
		ShortDescription: product.ShortDescription,
		Price:            product.Price.StringFixed(2),
		Category:         product.Category.String(),
		Gender:           gender,
		Scent:            product.Scent,
		ImageURL:         product.ImageURL,
		Ingredients:      product.Ingredients,
		Benefits:         product.Benefits,
		Size:             product.Size,
		Stock:            product.Stock,
		Featured:         product.Featured,
		CreatedAt:        product.CreatedAt,
	}
}

func newProductListResponse(products []models.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, product := range products {
		result = append(result, newProductResponse(product))
	}
	return result
}
