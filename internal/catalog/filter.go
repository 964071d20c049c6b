package catalog

import (
	"strings"

	"github.com/floracare/storefront/pkg/db/models"
	"github.com/floracare/storefront/pkg/enums"
	"github.com/google/uuid"
)

// Filter narrows a fetched product collection in memory. A product matches
// when the category is "All" (or empty) or equals the product's category, AND
// the query is empty or is a case-insensitive substring of the name,
// description, or scent. The result preserves the input order; no re-sort.
func Filter(products []models.Product, query, category string) []models.Product {
	normalizedQuery := strings.ToLower(strings.TrimSpace(query))
	matched := make([]models.Product, 0, len(products))
	for _, product := range products {
		if !matchesCategory(product, category) {
			continue
		}
		if !matchesQuery(product, normalizedQuery) {
			continue
		}
		matched = append(matched, product)
	}
	return matched
}

// SelectByID resolves a single product from the fetched collection. Absence
// is a valid, non-error outcome; callers fall back to the list view.
func SelectByID(products []models.Product, id uuid.UUID) (models.Product, bool) {
	for _, product := range products {
		if product.ID == id {
			return product, true
		}
	}
	return models.Product{}, false
}

func matchesCategory(product models.Product, category string) bool {
	if category == "" || category == enums.ProductCategoryAll {
		return true
	}
	return string(product.Category) == category
}

func matchesQuery(product models.Product, normalizedQuery string) bool {
	if normalizedQuery == "" {
		return true
	}
	for _, field := range []string{product.Name, product.Description, product.Scent} {
		if strings.Contains(strings.ToLower(field), normalizedQuery) {
			return true
		}
	}
	return false
}
